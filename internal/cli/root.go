package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/slidefx"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional engine config file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the slidefx CLI. viewer runs
// the interactive window for the view command; nil disables it.
func NewRootCommand(viewer Viewer) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "slidefx",
		Short: "slidefx - interactive slide effects",
		Long: `Play, inspect and migrate interactive slide documents.

Documents are YAML files of slides, elements with responsive positions, and
interactions that bind gestures to timed effects.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "engine config file (yaml)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTimelineCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewViewCommand(opts, viewer))

	return cmd
}

// setupLogging routes the global and engine loggers to w. Verbose output
// includes the engine's debug entries.
func setupLogging(w io.Writer, verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).With().Timestamp().Logger()
	slidefx.SetLogger(log.Logger)
	slidefx.SetDebugMode(verbose)
}

// loadConfig returns the engine config named by --config, or the defaults.
func (o *RootOptions) loadConfig() (slidefx.Config, error) {
	if o.Config == "" {
		return slidefx.DefaultConfig(), nil
	}
	return slidefx.LoadConfig(o.Config)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
