// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	UI     UIConfig      `toml:"ui"`
	Cache  CacheConfig   `toml:"cache"`
	Log    LogConfig     `toml:"log"`
	Blocks []BlockConfig `toml:"block"`
}

// UIConfig holds user-interface settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma syntax highlighting theme used for the
	// buffer and for rendered code blocks. Defaults to "github-dark".
	SyntaxTheme string `toml:"syntax_theme"`
	LineNumbers bool   `toml:"line_numbers"`
	ReadOnly    bool   `toml:"read_only"`
}

// SyntaxThemeOrDefault returns the configured syntax theme or "github-dark" if unset.
func (u UIConfig) SyntaxThemeOrDefault() string {
	if u.SyntaxTheme == "" {
		return "github-dark"
	}
	return u.SyntaxTheme
}

// CacheConfig holds render cache settings.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Path     string `toml:"path"` // empty = <data dir>/render_cache.db
	TTLHours int    `toml:"ttl_hours"`
}

// CacheTTLOrDefault returns the configured TTL or 24 hours if unset.
func (c CacheConfig) CacheTTLOrDefault() int {
	if c.TTLHours <= 0 {
		return 24
	}
	return c.TTLHours
}

// LogConfig holds logging settings. Logging stays off unless a file is set;
// the terminal is owned by the TUI.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// BlockConfig describes one decorated block kind: the token pair that
// delimits it and the renderer used for its collapsed and expanded forms.
type BlockConfig struct {
	Tag               string `toml:"tag"`
	Begin             string `toml:"begin"`
	End               string `toml:"end"`
	Renderer          string `toml:"renderer"` // "code" or "markdown"
	EditLabel         string `toml:"edit_label"`
	ClearOnClick      bool   `toml:"clear_on_click"`
	RenderWhenEditing bool   `toml:"render_when_editing"`
}

// Default returns the built-in configuration: fenced code blocks and
// :::kind admonition blocks.
func Default() *Config {
	return &Config{
		UI: UIConfig{LineNumbers: true},
		Blocks: []BlockConfig{
			{
				Tag:          "code",
				Begin:        "^```(\\w+)\\s*$",
				End:          "^```\\s*$",
				Renderer:     "code",
				ClearOnClick: true,
			},
			{
				Tag:               "admonition",
				Begin:             `^:::(\w*)\s*$`,
				End:               `^:::\s*$`,
				Renderer:          "markdown",
				ClearOnClick:      true,
				RenderWhenEditing: true,
			},
		},
	}
}

// Load reads configuration from a TOML file. A missing or empty path yields
// the defaults; an unreadable or invalid file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Blocks) == 0 {
		cfg.Blocks = Default().Blocks
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	seen := map[string]bool{}
	for i, b := range c.Blocks {
		errs = append(errs, validateBlockConfig(i, b)...)
		if b.Tag != "" && seen[b.Tag] {
			errs = append(errs, fmt.Errorf("block[%d].tag=%q is duplicated", i, b.Tag))
		}
		seen[b.Tag] = true
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateBlockConfig(i int, b BlockConfig) []error {
	var errs []error
	if b.Tag == "" {
		errs = append(errs, fmt.Errorf("block[%d].tag is required", i))
	}
	for field, pat := range map[string]string{"begin": b.Begin, "end": b.End} {
		if pat == "" {
			errs = append(errs, fmt.Errorf("block[%d].%s is required", i, field))
			continue
		}
		if _, err := regexp.Compile(pat); err != nil {
			errs = append(errs, fmt.Errorf("block[%d].%s=%q is invalid: %v", i, field, pat, err))
		}
	}
	switch b.Renderer {
	case "code", "markdown":
	default:
		errs = append(errs, fmt.Errorf("block[%d].renderer=%q must be \"code\" or \"markdown\"", i, b.Renderer))
	}
	return errs
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"LIVEMARK_SYNTAX_THEME", func(v string) {
			if v != "" {
				cfg.UI.SyntaxTheme = v
			}
		}},
		{"LIVEMARK_LOG_FILE", func(v string) {
			if v != "" {
				cfg.Log.File = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the livemark data directory (~/.config/livemark).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "livemark"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
