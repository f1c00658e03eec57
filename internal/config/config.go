package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/revdiff/internal/renderer/core"
)

// Config holds every revdiff setting.
type Config struct {
	Revisions RevisionsConfig        `toml:"revisions"`
	Logging   LoggingConfig          `toml:"logging"`
	Styles    map[string]StyleConfig `toml:"styles"`
}

// RevisionsConfig configures snapshots and annotations.
type RevisionsConfig struct {
	// MarkerPrefix starts every annotation marker name.
	MarkerPrefix string `toml:"marker_prefix"`

	// Retention is the number of revisions kept.
	Retention int `toml:"retention"`

	// MaxHistory bounds the edit log, in deltas.
	MaxHistory int `toml:"max_history"`

	Classes ClassesConfig `toml:"classes"`
}

// ClassesConfig names the highlight class of each change type.
type ClassesConfig struct {
	Insert    string `toml:"insert"`
	Attribute string `toml:"attribute"`
	Remove    string `toml:"remove"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// StyleConfig is the terminal style of one change type.
type StyleConfig struct {
	Foreground    string `toml:"foreground"`
	Background    string `toml:"background"`
	Bold          bool   `toml:"bold"`
	Italic        bool   `toml:"italic"`
	Underline     bool   `toml:"underline"`
	Strikethrough bool   `toml:"strikethrough"`
	Dim           bool   `toml:"dim"`
}

// Style keys.
const (
	StyleInsert    = "insert"
	StyleAttribute = "attribute"
	StyleRemove    = "remove"
	StylePhantom   = "phantom"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Revisions: RevisionsConfig{
			MarkerPrefix: "revisions",
			Retention:    1,
			MaxHistory:   1000,
			Classes: ClassesConfig{
				Insert:    "revisions-insert",
				Attribute: "revisions-attribute",
				Remove:    "revisions-remove",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Styles: map[string]StyleConfig{
			StyleInsert:    {Foreground: "#50C850", Background: "#1E3C1E"},
			StyleAttribute: {Foreground: "#C8C850", Background: "#3C3C1E", Underline: true},
			StyleRemove:    {Foreground: "#C85050", Background: "#3C1E1E", Strikethrough: true},
			StylePhantom:   {Dim: true},
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	return parse("<data>", data)
}

func parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	defaults := cfg.Styles
	cfg.Styles = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	// A style table in the file replaces the default one as a whole.
	if cfg.Styles == nil {
		cfg.Styles = make(map[string]StyleConfig, len(defaults))
	}
	for name, s := range defaults {
		if _, ok := cfg.Styles[name]; !ok {
			cfg.Styles[name] = s
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and joins the failures.
func (c *Config) Validate() error {
	var errs []error
	if c.Revisions.MarkerPrefix == "" || strings.Contains(c.Revisions.MarkerPrefix, ":") {
		errs = append(errs, &ValidationError{Path: "revisions.marker_prefix", Message: "must be non-empty and contain no colon", Value: c.Revisions.MarkerPrefix})
	}
	if c.Revisions.Retention < 1 {
		errs = append(errs, &ValidationError{Path: "revisions.retention", Message: "must be at least 1", Value: c.Revisions.Retention})
	}
	if c.Revisions.MaxHistory < 1 {
		errs = append(errs, &ValidationError{Path: "revisions.max_history", Message: "must be at least 1", Value: c.Revisions.MaxHistory})
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "must be debug, info, warn or error", Value: c.Logging.Level})
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, &ValidationError{Path: "logging.format", Message: "must be text or json", Value: c.Logging.Format})
	}
	for name, s := range c.Styles {
		for field, v := range map[string]string{"foreground": s.Foreground, "background": s.Background} {
			if _, err := core.ParseColor(v); err != nil {
				errs = append(errs, &ValidationError{Path: "styles." + name + "." + field, Message: "must be a #rrggbb color", Value: v})
			}
		}
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides settings from REVDIFF_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("REVDIFF_LOG_LEVEL"); ok {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup("REVDIFF_LOG_FORMAT"); ok {
		c.Logging.Format = strings.ToLower(v)
	}
	if v, ok := lookup("REVDIFF_MARKER_PREFIX"); ok {
		c.Revisions.MarkerPrefix = v
	}
	if v, ok := lookup("REVDIFF_RETENTION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Path: "REVDIFF_RETENTION", Message: "must be an integer", Value: v}
		}
		c.Revisions.Retention = n
	}
	return c.Validate()
}

// Theme builds the terminal theme: each change type style is bound to its
// highlight class.
func (c *Config) Theme() (*core.Theme, error) {
	theme := core.NewTheme()
	if s, ok := c.Styles[StylePhantom]; ok {
		phantom, err := s.Style()
		if err != nil {
			return nil, err
		}
		theme.Phantom = phantom
	}
	classes := map[string]string{
		StyleInsert:    c.Revisions.Classes.Insert,
		StyleAttribute: c.Revisions.Classes.Attribute,
		StyleRemove:    c.Revisions.Classes.Remove,
	}
	for key, class := range classes {
		s, ok := c.Styles[key]
		if !ok || class == "" {
			continue
		}
		style, err := s.Style()
		if err != nil {
			return nil, fmt.Errorf("styles.%s: %w", key, err)
		}
		theme.Set(class, style)
	}
	return theme, nil
}

// Style converts the settings to a core.Style.
func (s StyleConfig) Style() (core.Style, error) {
	fg, err := core.ParseColor(s.Foreground)
	if err != nil {
		return core.Style{}, err
	}
	bg, err := core.ParseColor(s.Background)
	if err != nil {
		return core.Style{}, err
	}
	style := core.DefaultStyle().WithForeground(fg).WithBackground(bg)
	for attr, on := range map[core.Attribute]bool{
		core.AttrBold:          s.Bold,
		core.AttrItalic:        s.Italic,
		core.AttrUnderline:     s.Underline,
		core.AttrStrikethrough: s.Strikethrough,
		core.AttrDim:           s.Dim,
	} {
		if on {
			style = style.With(attr)
		}
	}
	return style, nil
}
