// Package config loads linkdiag.toml, the per-project defaults for scans.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"linkdiag/internal/diag"
	"linkdiag/internal/diagfmt"
	"linkdiag/internal/parsers"
	"linkdiag/internal/source"
)

// FileName is the name searched for by Find.
const FileName = "linkdiag.toml"

// Formats lists the accepted output formats.
var Formats = []string{"pretty", "json", "sarif", "short"}

// Config mirrors linkdiag.toml.
type Config struct {
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

type ScanConfig struct {
	Parser           string   `toml:"parser"`
	Encoding         string   `toml:"encoding"`
	Jobs             int      `toml:"jobs"`
	Extensions       []string `toml:"extensions"`
	MinSeverity      string   `toml:"min_severity"`
	Dedup            bool     `toml:"dedup"`
	WarningsAsErrors bool     `toml:"warnings_as_errors"`
	Sort             bool     `toml:"sort"`
	DiskCache        bool     `toml:"disk_cache"`
}

type OutputConfig struct {
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Color          string `toml:"color"`
	PathMode       string `toml:"path_mode"`
	Width          int    `toml:"width"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			Parser:      parsers.Default,
			Encoding:    "auto",
			Extensions:  []string{".log", ".txt", ".out"},
			MinSeverity: "low",
			Dedup:       true,
		},
		Output: OutputConfig{
			Format:         "pretty",
			MaxDiagnostics: 100,
			Color:          "auto",
			PathMode:       "auto",
		},
	}
}

// Find walks from startDir up to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("scan", "extensions") && len(cfg.Scan.Extensions) == 0 {
		return Config{}, fmt.Errorf("%s: [scan].extensions must not be empty", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest linkdiag.toml above startDir, or returns
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	if _, err := parsers.Lookup(c.Scan.Parser); err != nil {
		return fmt.Errorf("[scan].parser: %w", err)
	}
	if _, err := source.ParseEncoding(c.Scan.Encoding); err != nil {
		return fmt.Errorf("[scan].encoding: %w", err)
	}
	if c.Scan.Jobs < 0 {
		return fmt.Errorf("[scan].jobs must be >= 0, got %d", c.Scan.Jobs)
	}
	if _, err := diag.ParseSeverity(c.Scan.MinSeverity); err != nil {
		return fmt.Errorf("[scan].min_severity: %w", err)
	}
	if !isFormat(c.Output.Format) {
		return fmt.Errorf("[output].format: unsupported format %q (expected %s)", c.Output.Format, strings.Join(Formats, "|"))
	}
	if c.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("[output].max_diagnostics must be >= 0, got %d", c.Output.MaxDiagnostics)
	}
	switch strings.ToLower(c.Output.Color) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color: invalid value %q (expected auto|on|off)", c.Output.Color)
	}
	if _, err := diagfmt.ParsePathMode(c.Output.PathMode); err != nil {
		return fmt.Errorf("[output].path_mode: %w", err)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("[output].width must be >= 0, got %d", c.Output.Width)
	}
	return nil
}

func isFormat(s string) bool {
	for _, f := range Formats {
		if strings.EqualFold(s, f) {
			return true
		}
	}
	return false
}
