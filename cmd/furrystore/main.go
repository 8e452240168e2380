// Package main is the entry point for the furrystore CLI.
//
// Usage:
//
//	furrystore demo -c config.yaml                       # Run the terminal counter
//	furrystore inspect -c config.yaml --set count=3      # Print store snapshots
//	furrystore version                                   # Show version info
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-store/config"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "furrystore",
	Short: "An observable state store with a terminal front end",
	Long: `furrystore drives a small observable state store.

A store holds one state record. Updates shallow-merge into it and notify
every subscriber in registration order. Components read the store through
selectors and redraw only when their selected value changes.

Example config:
  name: counter
  tick_rate: 100ms
  state:
    count: 0
    step: 1`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "furrystore %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// newLogger creates a JSON logger writing to w.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig reads the --config flag, falling back to defaults when unset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
