package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"segpub/internal/diagfmt"
)

const configFileName = "segpub.toml"

// projectConfig mirrors segpub.toml. Every key is optional.
type projectConfig struct {
	Check  checkConfig  `toml:"check"`
	Output outputConfig `toml:"output"`
}

type checkConfig struct {
	Format string `toml:"format"`
	Jobs   int    `toml:"jobs"`
	Cache  bool   `toml:"cache"`
	UI     string `toml:"ui"`
}

type outputConfig struct {
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

// loadedConfig keeps the decode metadata so that only keys present in the
// file override defaults.
type loadedConfig struct {
	Path   string
	Config projectConfig
	meta   toml.MetaData
}

func (c *loadedConfig) isDefined(key ...string) bool {
	return c != nil && c.meta.IsDefined(key...)
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
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

// loadConfig finds segpub.toml upwards from startDir. A missing file is not
// an error: the result is nil.
func loadConfig(startDir string) (*loadedConfig, error) {
	path, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return nil, err
	}
	return decodeConfig(path)
}

func decodeConfig(path string) (*loadedConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &loadedConfig{Path: path, Config: cfg, meta: meta}, nil
}

// checkSettings is the effective configuration of `segpub check`:
// defaults, then segpub.toml, then explicitly set flags.
type checkSettings struct {
	Format   string
	Jobs     int
	Cache    bool
	UI       uiMode
	Color    string
	PathMode diagfmt.PathMode
}

func resolveCheckSettings(cmd *cobra.Command, cfg *loadedConfig) (checkSettings, error) {
	s := checkSettings{Format: "pretty", UI: uiModeAuto, Color: "auto"}
	pathMode := "auto"
	uiValue := string(uiModeAuto)

	if cfg != nil {
		c := cfg.Config
		if cfg.isDefined("check", "format") {
			s.Format = c.Check.Format
		}
		if cfg.isDefined("check", "jobs") {
			s.Jobs = c.Check.Jobs
		}
		if cfg.isDefined("check", "cache") {
			s.Cache = c.Check.Cache
		}
		if cfg.isDefined("check", "ui") {
			uiValue = c.Check.UI
		}
		if cfg.isDefined("output", "color") {
			s.Color = c.Output.Color
		}
		if cfg.isDefined("output", "path_mode") {
			pathMode = c.Output.PathMode
		}
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("format") {
		if s.Format, err = flags.GetString("format"); err != nil {
			return s, err
		}
	}
	if flags.Changed("jobs") {
		if s.Jobs, err = flags.GetInt("jobs"); err != nil {
			return s, err
		}
	}
	if flags.Changed("cache") {
		if s.Cache, err = flags.GetBool("cache"); err != nil {
			return s, err
		}
	}
	if flags.Changed("ui") {
		if uiValue, err = flags.GetString("ui"); err != nil {
			return s, err
		}
	}
	if flags.Changed("color") {
		if s.Color, err = flags.GetString("color"); err != nil {
			return s, err
		}
	}
	if flags.Changed("path-mode") {
		if pathMode, err = flags.GetString("path-mode"); err != nil {
			return s, err
		}
	}

	switch s.Format {
	case "pretty", "json", "short":
	default:
		return s, fmt.Errorf("unknown format: %s (expected pretty|json|short)", s.Format)
	}
	switch s.Color {
	case "auto", "on", "off":
	default:
		return s, fmt.Errorf("invalid color mode %q (expected auto|on|off)", s.Color)
	}
	if s.Jobs < 0 {
		return s, fmt.Errorf("jobs must be >= 0, got %d", s.Jobs)
	}
	if s.UI, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	if s.PathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return s, err
	}
	return s, nil
}
