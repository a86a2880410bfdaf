// steamctl runs the steam backdrop headless or in a terminal.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/steam/config"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "steamctl",
		Short: "steam backdrop tools",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return config.Init(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(newBenchCmd(), newSnapshotCmd(), newConfigCmd(), newTermCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
