package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/phanxgames/slidefx"
)

// loadDocument reads a slide document, mapping failures to exit errors.
func loadDocument(formatter *OutputFormatter, path string) (*slidefx.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("document %s not found", path))
		}
		return nil, formatter.fail(ExitCommandError, ErrCodeGeneric, err)
	}
	doc, err := slidefx.DecodeDocument(data)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, ErrCodeDecode, err)
	}
	formatter.VerboseLog("Loaded %s: %d slide(s)", path, len(doc.Slides))
	return doc, nil
}
