// Command slidefx plays, validates and migrates interactive slide documents.
package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/slidefx"
	"github.com/phanxgames/slidefx/ebitenhost"
	"github.com/phanxgames/slidefx/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand(view)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

func view(p *slidefx.Player, opts cli.ViewOptions) error {
	return ebitenhost.Run(p, ebitenhost.RunConfig{
		Title:   opts.Title,
		Width:   opts.Width,
		Height:  opts.Height,
		ShowHUD: opts.HUD,
		Reload:  opts.Reload,
	})
}
