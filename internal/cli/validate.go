package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/slidefx"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Slides   int               `json:"slides"`
	Steps    int               `json:"steps"`
	Warnings []slidefx.Warning `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <document.yaml>",
		Short: "Check a document for problems before playing it",
		Long: `Decode a document and check it for problems that would only show at
play time: transitions to missing slides, unknown effect types, elements
without a desktop rectangle and interactions shadowed by an earlier one
with the same trigger.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], strict, cmd)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func runValidate(opts *RootOptions, path string, strict bool, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	doc, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}
	warnings := slidefx.CheckDocument(doc)
	result := ValidationResult{
		Valid:    len(warnings) == 0 || !strict,
		Slides:   len(doc.Slides),
		Steps:    len(slidefx.BuildTimeline(doc.Slides)),
		Warnings: warnings,
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, w := range warnings {
			fmt.Fprintf(formatter.Writer, "warning: %s\n", w)
		}
		mark := "✓"
		if !result.Valid {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s: %d slide(s), %d step(s), %d warning(s)\n",
			mark, path, result.Slides, result.Steps, len(warnings))
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d warning(s) in strict mode", ErrCodeWarnings, len(warnings)))
	}
	return nil
}
