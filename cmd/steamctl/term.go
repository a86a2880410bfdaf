package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/term"
)

func newTermCmd() *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "term",
		Short: "run the backdrop in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing terminal: %w", err)
			}
			defer screen.Fini()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			h := term.New(screen, config.Cfg(), nil)
			defer h.Close()
			h.Run(ctx, fps)
			return nil
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	return cmd
}

