package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"human-input/logger"
)

// ErrConfigLoad marks every configuration failure. It is fatal at startup.
var ErrConfigLoad = errors.New("config load failed")

// LoadError carries the file involved and the underlying cause
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config: load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrConfigLoad, e.Err}
}

// Config holds the application configuration
type Config struct {
	Browser  BrowserConfig  `yaml:"browser"`
	Mouse    MouseConfig    `yaml:"mouse"`
	Movement MovementConfig `yaml:"movement"`
	Keyboard KeyboardConfig `yaml:"keyboard"`
	Scroll   ScrollConfig   `yaml:"scroll"`
	State    StateConfig    `yaml:"state"`
	Logging  logger.Options `yaml:"logging"`

	// Seed for the random source. 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// BrowserConfig describes how to reach the page being driven
type BrowserConfig struct {
	Driver        string        `yaml:"driver"` // rod or chromedp
	RemoteURL     string        `yaml:"remote_url"`
	Launch        bool          `yaml:"launch"`
	Headless      bool          `yaml:"headless"`
	UserDataDir   string        `yaml:"user_data_dir"`
	Stealth       bool          `yaml:"stealth"`
	CursorOverlay bool          `yaml:"cursor_overlay"`
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	NavTimeout    time.Duration `yaml:"nav_timeout"`

	// Fixed viewport. Zero measures window.innerWidth/innerHeight instead.
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
}

type MouseConfig struct {
	DefaultX      float64       `yaml:"default_x"`
	DefaultY      float64       `yaml:"default_y"`
	MinClickDelay time.Duration `yaml:"min_click_delay"`
	MaxClickDelay time.Duration `yaml:"max_click_delay"`
}

type MovementConfig struct {
	Steps                 int     `yaml:"steps"`
	InitialOffset         float64 `yaml:"initial_offset"`
	MaxNonOvershootOffset float64 `yaml:"max_non_overshoot_offset"`
	MaxOvershootOffset    float64 `yaml:"max_overshoot_offset"`
	MinStages             int     `yaml:"min_stages"`
	MaxStages             int     `yaml:"max_stages"`
}

type KeyboardConfig struct {
	TypoChance     float64           `yaml:"typo_chance"`
	MinKeyDelay    time.Duration     `yaml:"min_key_delay"`
	MaxKeyDelay    time.Duration     `yaml:"max_key_delay"`
	ChunkMin       int               `yaml:"chunk_min"`
	ChunkMax       int               `yaml:"chunk_max"`
	RealizationMin time.Duration     `yaml:"realization_min"`
	RealizationMax time.Duration     `yaml:"realization_max"`
	AdjacencyTable map[string]string `yaml:"adjacency"`

	adjacency Adjacency
}

// Adjacency returns the parsed neighbour table
func (k KeyboardConfig) Adjacency() Adjacency {
	return k.adjacency
}

type ScrollConfig struct {
	MinVelocity  float64       `yaml:"min_velocity"`
	MaxVelocity  float64       `yaml:"max_velocity"`
	DecayMin     float64       `yaml:"decay_min"`
	DecayMax     float64       `yaml:"decay_max"`
	MinStep      int           `yaml:"min_step"`
	StepJitter   int           `yaml:"step_jitter"`
	StopVelocity float64       `yaml:"stop_velocity"`
	MinDelay     time.Duration `yaml:"min_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// StateConfig points at the persisted cursor record
type StateConfig struct {
	Backend string `yaml:"backend"` // json, sqlite or memory
	Path    string `yaml:"path"`
}

// Default returns a complete configuration matching the stock config file
func Default() *Config {
	cfg := &Config{
		Browser: BrowserConfig{
			Driver:        "rod",
			RemoteURL:     "http://localhost:9222",
			Headless:      true,
			Stealth:       true,
			LookupTimeout: 10 * time.Second,
			NavTimeout:    30 * time.Second,
		},
		Mouse: MouseConfig{
			MinClickDelay: 100 * time.Millisecond,
			MaxClickDelay: 300 * time.Millisecond,
		},
		Movement: MovementConfig{
			Steps:                 25,
			InitialOffset:         50,
			MaxNonOvershootOffset: 10,
			MaxOvershootOffset:    30,
			MinStages:             2,
			MaxStages:             3,
		},
		Keyboard: KeyboardConfig{
			TypoChance:     0.1,
			MinKeyDelay:    50 * time.Millisecond,
			MaxKeyDelay:    200 * time.Millisecond,
			ChunkMin:       3,
			ChunkMax:       5,
			RealizationMin: 150 * time.Millisecond,
			RealizationMax: 350 * time.Millisecond,
			AdjacencyTable: QWERTY(),
		},
		Scroll: ScrollConfig{
			MinVelocity:  80,
			MaxVelocity:  140,
			DecayMin:     0.88,
			DecayMax:     1.0,
			MinStep:      5,
			StepJitter:   3,
			StopVelocity: 8,
			MinDelay:     10 * time.Millisecond,
			MaxDelay:     120 * time.Millisecond,
		},
		State: StateConfig{
			Backend: "json",
			Path:    "cursor.json",
		},
		Logging: logger.Options{
			Format: "text",
			Level:  "info",
		},
	}
	// Default table is well-formed by construction
	cfg.Keyboard.adjacency, _ = ParseAdjacency(cfg.Keyboard.AdjacencyTable)
	return cfg
}

// LoadConfig reads the config file and applies environment variable overrides.
// A missing or malformed file is an error: the engine never runs on a guess.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	// 1. Read YAML file (JSON is valid YAML)
	if path == "" {
		return nil, &LoadError{Path: path, Err: errors.New("no config file given")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	// A configured keyboard replaces the stock table instead of merging into it
	cfg.Keyboard.AdjacencyTable = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if cfg.Keyboard.AdjacencyTable == nil {
		cfg.Keyboard.AdjacencyTable = QWERTY()
	}

	// 2. Env Overrides
	if err := cfg.applyEnv(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	// 3. Validation
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HUMANINPUT_DRIVER"); v != "" {
		c.Browser.Driver = v
	}
	if v := os.Getenv("HUMANINPUT_REMOTE_URL"); v != "" {
		c.Browser.RemoteURL = v
	}
	if v := os.Getenv("HUMANINPUT_HEADLESS"); v != "" {
		c.Browser.Headless = (v == "true" || v == "1")
	}
	if v := os.Getenv("HUMANINPUT_STATE_BACKEND"); v != "" {
		c.State.Backend = v
	}
	if v := os.Getenv("HUMANINPUT_STATE_PATH"); v != "" {
		c.State.Path = v
	}
	if v := os.Getenv("HUMANINPUT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HUMANINPUT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("HUMANINPUT_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HUMANINPUT_SEED: %w", err)
		}
		c.Seed = seed
	}
	return nil
}

// Validate checks every bound the engine relies on and parses the adjacency table
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	switch c.Browser.Driver {
	case "rod", "chromedp":
	default:
		errs = append(errs, fmt.Errorf("browser.driver %q: want rod or chromedp", c.Browser.Driver))
	}
	check(c.Browser.Launch || c.Browser.RemoteURL != "", "browser.remote_url is required unless browser.launch is set")
	check(c.Browser.ViewportWidth >= 0 && c.Browser.ViewportHeight >= 0, "browser viewport must not be negative")
	check(c.Browser.LookupTimeout > 0 && c.Browser.NavTimeout > 0, "browser timeouts must be positive")

	check(c.Mouse.DefaultX >= 0 && c.Mouse.DefaultY >= 0, "mouse default position must not be negative")
	check(c.Mouse.MinClickDelay >= 0 && c.Mouse.MinClickDelay <= c.Mouse.MaxClickDelay,
		"mouse click delay window [%s, %s] is invalid", c.Mouse.MinClickDelay, c.Mouse.MaxClickDelay)

	check(c.Movement.Steps >= 2, "movement.steps must be at least 2, got %d", c.Movement.Steps)
	check(c.Movement.InitialOffset >= 0, "movement.initial_offset must not be negative")
	check(c.Movement.MaxNonOvershootOffset >= 0 && c.Movement.MaxOvershootOffset >= 0,
		"movement offsets must not be negative")
	check(c.Movement.MinStages >= 1 && c.Movement.MinStages <= c.Movement.MaxStages,
		"movement stages [%d, %d] are invalid", c.Movement.MinStages, c.Movement.MaxStages)

	check(c.Keyboard.TypoChance >= 0 && c.Keyboard.TypoChance <= 1, "keyboard.typo_chance must be within [0, 1]")
	check(c.Keyboard.MinKeyDelay >= 0 && c.Keyboard.MinKeyDelay <= c.Keyboard.MaxKeyDelay, "keyboard key delay window is invalid")
	check(c.Keyboard.ChunkMin >= 1 && c.Keyboard.ChunkMin <= c.Keyboard.ChunkMax,
		"keyboard chunk range [%d, %d] is invalid", c.Keyboard.ChunkMin, c.Keyboard.ChunkMax)
	check(c.Keyboard.RealizationMin >= 0 && c.Keyboard.RealizationMin <= c.Keyboard.RealizationMax,
		"keyboard realization pause window is invalid")

	check(c.Scroll.MinVelocity > 0 && c.Scroll.MinVelocity <= c.Scroll.MaxVelocity, "scroll velocity range is invalid")
	check(c.Scroll.DecayMin > 0 && c.Scroll.DecayMin <= c.Scroll.DecayMax && c.Scroll.DecayMax <= 1,
		"scroll decay range must lie within (0, 1]")
	check(c.Scroll.MinStep > c.Scroll.StepJitter, "scroll.min_step must exceed scroll.step_jitter")
	check(c.Scroll.StepJitter >= 0, "scroll.step_jitter must not be negative")
	check(c.Scroll.MinDelay >= 0 && c.Scroll.MinDelay <= c.Scroll.MaxDelay, "scroll delay window is invalid")

	switch c.State.Backend {
	case "json", "sqlite":
		check(c.State.Path != "", "state.path is required for the %s backend", c.State.Backend)
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("state.backend %q: want json, sqlite or memory", c.State.Backend))
	}

	adj, err := ParseAdjacency(c.Keyboard.AdjacencyTable)
	if err != nil {
		errs = append(errs, err)
	}
	c.Keyboard.adjacency = adj

	return errors.Join(errs...)
}

// ParseAdjacency converts the YAML table into rune form. Keys must be a
// single character and are stored lowercased.
func ParseAdjacency(table map[string]string) (Adjacency, error) {
	adj := make(Adjacency, len(table))
	for k, v := range table {
		if utf8.RuneCountInString(k) != 1 {
			return nil, fmt.Errorf("keyboard.adjacency key %q must be a single character", k)
		}
		r, _ := utf8.DecodeRuneInString(k)
		adj[toLower(r)] = []rune(v)
	}
	return adj, nil
}
