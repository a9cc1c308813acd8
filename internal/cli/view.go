package cli

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/slidefx"
)

// ViewOptions configures the interactive window.
type ViewOptions struct {
	Title  string
	Width  int
	Height int
	HUD    bool
	// Reload delivers edited documents while the window is open.
	Reload <-chan *slidefx.Document
}

// Viewer opens a window playing p and blocks until it closes.
type Viewer func(p *slidefx.Player, opts ViewOptions) error

// viewFlags holds flags for the view command.
type viewFlags struct {
	watch  bool
	hud    bool
	play   bool
	edit   bool
	device string
	width  int
	height int
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions, viewer Viewer) *cobra.Command {
	flags := &viewFlags{}

	cmd := &cobra.Command{
		Use:   "view <document.yaml>",
		Short: "Play a document in a window",
		Long: `Play a document in a window.

Click, tap, hover and hold elements to trigger their interactions. Drag the
canvas to pan, pinch or scroll to zoom. Arrow keys step through the
timeline, P toggles auto-advance and Tab switches to edit mode, where
elements can be selected and dragged. With --watch the document reloads
whenever the file is saved.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(rootOpts, flags, viewer, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload the document when the file changes")
	cmd.Flags().BoolVar(&flags.hud, "hud", true, "show the step counter and progress bar")
	cmd.Flags().BoolVar(&flags.play, "play", false, "start auto-advancing the timeline")
	cmd.Flags().BoolVar(&flags.edit, "edit", false, "start in edit mode")
	cmd.Flags().StringVar(&flags.device, "device", "", "pin the device class (desktop|tablet|mobile)")
	cmd.Flags().IntVar(&flags.width, "width", 1280, "window width")
	cmd.Flags().IntVar(&flags.height, "height", 720, "window height")

	return cmd
}

func runView(opts *RootOptions, flags *viewFlags, viewer Viewer, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if viewer == nil {
		return formatter.fail(ExitCommandError, ErrCodeViewer, errors.New("this build has no viewer"))
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, err)
	}
	doc, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}
	player, err := slidefx.NewPlayer(doc, cfg)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err)
	}
	defer player.Dispose()

	if flags.device != "" {
		var class slidefx.DeviceClass
		if err := class.UnmarshalText([]byte(flags.device)); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeGeneric, err)
		}
		player.SetDeviceClass(class)
	}
	if flags.edit {
		player.SetMode(slidefx.ModeEdit)
	}
	if flags.play {
		player.Sequencer().Play()
	}

	viewOpts := ViewOptions{
		Title:  doc.Title,
		Width:  flags.width,
		Height: flags.height,
		HUD:    flags.hud,
	}
	if viewOpts.Title == "" {
		viewOpts.Title = path
	}

	if flags.watch {
		w, err := NewWatcher(path)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeGeneric, err)
		}
		defer w.Close()
		go func() {
			for err := range w.Errors {
				log.Warn().Err(err).Str("path", path).Msg("document reload failed")
			}
		}()
		viewOpts.Reload = w.Docs
		formatter.VerboseLog("Watching %s for changes", path)
	}

	if err := viewer(player, viewOpts); err != nil {
		return formatter.fail(ExitFailure, ErrCodeViewer, err)
	}
	return nil
}
