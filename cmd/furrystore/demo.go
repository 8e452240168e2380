package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	backendtcell "github.com/odvcencio/furry-store/backend/tcell"
	"github.com/odvcencio/furry-store/observability"
	"github.com/odvcencio/furry-store/runtime"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the terminal counter",
	Long: `Run a terminal counter built on a store.

Keys:
  + / -   change count by step
  a       toggle auto increment
  r       reset to the initial state
  q       quit

The terminal owns stdout while the demo runs, so logs go to --log-file.

Example:
  furrystore demo -c config.yaml --log-file furrystore.log`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringP("config", "c", "", "path to config file")
	demoCmd.Flags().String("log-file", "", "write JSON logs to this file")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg.Level())
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))
	obs, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return err
	}

	be, err := backendtcell.New()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}

	c := newCounter(cfg, obs)
	app := runtime.NewApp(c.appConfig(be, cfg, obs))
	logger.Info("starting demo",
		"store", c.store.ID(),
		"tick_rate", cfg.TickRate.Duration().String(),
		"flush_policy", cfg.Policy().String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("demo failed: %w", err)
	}
	logger.Info("demo stopped", "frames", app.Frames())
	return nil
}
