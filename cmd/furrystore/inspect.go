package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-store/config"
	"github.com/odvcencio/furry-store/observability"
	"github.com/odvcencio/furry-store/state"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Apply updates to a store and print each snapshot",
	Long: `Build a store from the config's initial state, apply each --set in order
and print every snapshot a subscriber observes as highlighted JSON.

Values are parsed as YAML scalars, so numbers and booleans keep their types.

Example:
  furrystore inspect -c config.yaml --set count=3 --set auto=true
  furrystore inspect --set label=hello --plain`,
	RunE: runInspectCmd,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("config", "c", "", "path to config file")
	inspectCmd.Flags().StringArray("set", nil, "key=value update, repeatable")
	inspectCmd.Flags().Bool("plain", false, "print JSON without colors")
	inspectCmd.Flags().Bool("log", false, "log store events to stderr")
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sets, _ := cmd.Flags().GetStringArray("set")
	plain, _ := cmd.Flags().GetBool("plain")

	var obs observability.Observer
	if enabled, _ := cmd.Flags().GetBool("log"); enabled {
		obs = observability.NewSlogObserver(newLogger(cmd.ErrOrStderr(), cfg.Level()))
	}
	return runInspect(cmd.OutOrStdout(), cfg, sets, plain, obs)
}

func runInspect(w io.Writer, cfg *config.Config, sets []string, plain bool, obs observability.Observer) error {
	updates := make([]state.Partial, 0, len(sets))
	for _, s := range sets {
		key, value, err := config.ParseAssignment(s)
		if err != nil {
			return err
		}
		updates = append(updates, state.Partial{key: value})
	}

	formatter := "terminal256"
	if plain {
		formatter = "noop"
	}
	show := func(label string, snap *state.State) error {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "# %s (version %d)\n", label, snap.Version())
		if err := quick.Highlight(w, string(data), "json", formatter, cfg.Theme); err != nil {
			return fmt.Errorf("highlight: %w", err)
		}
		_, err = fmt.Fprintln(w)
		return err
	}

	store := state.Create(func(set state.SetFunc) state.Values {
		return cfg.InitialState()
	}, state.WithName(cfg.Name), state.WithObserver(obs))

	if err := show("initial", store.GetSnapshot()); err != nil {
		return err
	}

	var printErr error
	current := ""
	unsub := store.Subscribe(func() {
		if printErr == nil {
			printErr = show(current, store.GetSnapshot())
		}
	})
	defer unsub()

	for i, u := range updates {
		current = sets[i]
		if err := store.Set(u); err != nil {
			return err
		}
		if printErr != nil {
			return printErr
		}
	}
	return nil
}
