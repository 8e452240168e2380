// Package config provides YAML configuration for the furrystore CLI.
//
// Example configuration:
//
//	name: counter
//	tick_rate: 100ms
//	flush_policy: message_and_tick
//	log_level: info
//	observer: slog
//	theme: monokai
//	auto_interval: 1s
//
//	state:
//	  count: 0
//	  step: 1
//	  auto: false
//
//	help: |
//	  # Keys
//	  - **+** / **-** change the count
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/furry-store/observability"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
)

const (
	defaultName         = "furrystore"
	defaultTickRate     = 100 * time.Millisecond
	defaultAutoInterval = time.Second
	defaultTheme        = "monokai"
	minTickRate         = 10 * time.Millisecond
)

// DefaultHelp is the help panel text used when the config has none.
const DefaultHelp = `# Keys

- **+** / **-** change the count by the step
- **a** toggles auto increment
- **r** resets the state
- **q** quits
`

// ErrEmptyKey is returned for an assignment without a key.
var ErrEmptyKey = errors.New("assignment key is empty")

// Config is the root configuration structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Name labels the store in events. Defaults to "furrystore".
	Name string `yaml:"name"`

	// TickRate is the app frame tick. Defaults to 100ms. "0s" disables ticks.
	TickRate *Duration `yaml:"tick_rate"`

	// FlushPolicy selects when deferred store callbacks run:
	// message_and_tick, message, tick or manual.
	FlushPolicy string `yaml:"flush_policy"`

	// LogLevel is debug, info, warn or error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Observer names a registered event sink such as slog or noop.
	// Defaults to slog.
	Observer string `yaml:"observer"`

	// Theme is the chroma style for the state inspector.
	Theme string `yaml:"theme"`

	// AutoInterval is the demo's auto increment period.
	AutoInterval Duration `yaml:"auto_interval"`

	// State is the initial store state.
	State map[string]any `yaml:"state"`

	// Help is Markdown shown in the demo's help panel.
	Help string `yaml:"help"`

	policy runtime.QueueFlushPolicy
	level  slog.Level
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Parse parses YAML configuration data, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Name == "" {
		cfg.Name = defaultName
	}
	if cfg.TickRate == nil {
		tick := Duration(defaultTickRate)
		cfg.TickRate = &tick
	}
	if cfg.AutoInterval == 0 {
		cfg.AutoInterval = Duration(defaultAutoInterval)
	}
	if cfg.Observer == "" {
		cfg.Observer = "slog"
	}
	if cfg.Theme == "" {
		cfg.Theme = defaultTheme
	}
	if cfg.State == nil {
		cfg.State = map[string]any{}
	}
	if strings.TrimSpace(cfg.Help) == "" {
		cfg.Help = DefaultHelp
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	tick := c.TickRate.Duration()
	if tick < 0 {
		return fmt.Errorf("tick_rate cannot be negative, got %s", tick)
	}
	if tick > 0 && tick < minTickRate {
		return fmt.Errorf("tick_rate must be at least %s, got %s", minTickRate, tick)
	}
	if c.AutoInterval.Duration() < minTickRate {
		return fmt.Errorf("auto_interval must be at least %s, got %s", minTickRate, c.AutoInterval.Duration())
	}

	policy, err := runtime.ParseFlushPolicy(c.FlushPolicy)
	if err != nil {
		return fmt.Errorf("flush_policy: %w", err)
	}
	c.policy = policy

	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	c.level = level

	if _, err := observability.GetObserver(c.Observer); err != nil {
		return fmt.Errorf("observer: %w", err)
	}

	for k := range c.State {
		if strings.TrimSpace(k) == "" {
			return errors.New("state: keys must not be empty")
		}
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// Policy returns the parsed flush policy.
func (c *Config) Policy() runtime.QueueFlushPolicy {
	return c.policy
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	return c.level
}

// InitialState returns a copy of the configured initial state.
func (c *Config) InitialState() state.Values {
	return state.Values(maps.Clone(c.State))
}

// ParseAssignment parses "key=value". The value is decoded as a YAML scalar,
// so numbers and booleans keep their types; an empty value is nil.
func ParseAssignment(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok {
		return "", nil, fmt.Errorf("assignment %q: expected key=value", s)
	}
	if key == "" {
		return "", nil, fmt.Errorf("assignment %q: %w", s, ErrEmptyKey)
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("assignment %q: %w", s, err)
	}
	return key, value, nil
}
