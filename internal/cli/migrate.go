package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/slidefx"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	Output   string
	Width    float64
	Height   float64
	IDPrefix string
	Strict   bool
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate <legacy.json>",
		Short: "Convert a legacy percentage-based project to a slide document",
		Long: `Convert a legacy JSON project into a YAML slide document.

Hotspots placed by percentage and size tier become elements with desktop,
tablet and mobile rectangles. Flat timeline events become interactions
ordered by their step. Problems never stop the conversion; they are
reported as warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the document here instead of stdout")
	cmd.Flags().Float64Var(&opts.Width, "canvas-width", slidefx.DefaultReferenceWidth, "desktop canvas width the percentages refer to")
	cmd.Flags().Float64Var(&opts.Height, "canvas-height", slidefx.DefaultReferenceHeight, "desktop canvas height the percentages refer to")
	cmd.Flags().StringVar(&opts.IDPrefix, "id-prefix", "", "generate sequential ids with this prefix instead of UUIDv7")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit with failure when any warning is reported")

	return cmd
}

func runMigrate(rootOpts *RootOptions, opts *MigrateOptions, path string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("legacy project %s not found", path))
		}
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err)
	}
	project, err := slidefx.DecodeLegacyProject(data)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDecode, err)
	}

	migrateOpts := slidefx.MigrateOptions{CanvasWidth: opts.Width, CanvasHeight: opts.Height}
	if opts.IDPrefix != "" {
		migrateOpts.IDs = &slidefx.SequenceGenerator{Prefix: opts.IDPrefix}
	}
	result := slidefx.MigrateLegacy(project, migrateOpts)
	formatter.VerboseLog("Migrated %d slide(s) with %d warning(s)", len(result.Document.Slides), len(result.Warnings))

	out, err := slidefx.EncodeDocument(result.Document)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err)
	}
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeGeneric, err)
		}
	}

	switch {
	case formatter.JSON():
		if err := formatter.Success(result); err != nil {
			return err
		}
	default:
		if opts.Output == "" {
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(formatter.GetErrWriter(), "warning: %s\n", w)
		}
	}

	if opts.Strict && len(result.Warnings) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: migration reported %d warning(s)", ErrCodeWarnings, len(result.Warnings)))
	}
	return nil
}
