package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	configFileName = ".mindmap.yaml"
	envPrefix      = "MINDMAP_"
)

type Config struct {
	SaveDirectory string  `koanf:"save_directory"`
	Confirmations bool    `koanf:"confirmations"`
	CellWidth     float64 `koanf:"cell_width"`
	CellHeight    float64 `koanf:"cell_height"`
	ExportPadding float64 `koanf:"export_padding"`
	LogFile       string  `koanf:"log_file"`
}

func defaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"save_directory": "",
		"confirmations":  true,
		"cell_width":     10.0,
		"cell_height":    20.0,
		"export_padding": 20.0,
		"log_file":       "",
	}
}

// registerFlags adds the command-line overrides for every config key.
func registerFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default ~/"+configFileName+")")
	fs.String("save-directory", "", "directory for saved diagrams and exports")
	fs.Bool("confirmations", true, "ask before deleting nodes and quitting")
	fs.Float64("cell-width", 10, "world units per terminal column")
	fs.Float64("cell-height", 20, "world units per terminal row")
	fs.Float64("export-padding", 20, "padding around PNG exports")
	fs.String("log-file", "", "write debug logs to this file")
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// LoadConfig merges, lowest to highest priority: defaults, the config file,
// MINDMAP_ environment variables and flags that were set explicitly.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.SaveDirectory = expandHome(cfg.SaveDirectory)
	cfg.LogFile = expandHome(cfg.LogFile)
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		return nil, fmt.Errorf("%w: cell size must be positive, got %gx%g", ErrValidation, cfg.CellWidth, cfg.CellHeight)
	}
	return &cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// SavePath places filename in the save directory, creating it if needed.
func (c *Config) SavePath(filename string) (string, error) {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}
