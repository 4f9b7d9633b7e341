// Package config resolves the explorer's configuration from, in increasing
// precedence: built-in defaults, the YAML config file, environment variables,
// and CLI flags. Every resolved value remembers where it came from so
// misconfiguration reports can say which layer won.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries the CLI-provided overrides into resolution.
type ResolveOptions struct {
	ConfigPath string
	CLIDataset string
	CLINotesDB string
	CLIPort    string
	CLICountry string
}

// ResolvedConfig is the fully resolved explorer configuration.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DatasetPath     ResolvedValue `json:"dataset_path"`
	NotesDBPath     ResolvedValue `json:"notes_db_path"`
	Port            ResolvedValue `json:"port"`
	DefaultCountry  ResolvedValue `json:"default_country"`
	DefaultCategory ResolvedValue `json:"default_category"`
	DefaultEntity   ResolvedValue `json:"default_entity"`
}

type fileConfig struct {
	Dataset string `yaml:"dataset"`
	NotesDB string `yaml:"notes_db"`
	Port    string `yaml:"port"`
	Default struct {
		Country  string `yaml:"country"`
		Category string `yaml:"category"`
		Entity   string `yaml:"entity"`
	} `yaml:"default"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ghgdash", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath:      path,
		Port:            ResolvedValue{Value: "8050", Source: SourceDefault, From: "built-in default"},
		DefaultCountry:  ResolvedValue{Value: "EARTH", Source: SourceDefault, From: "built-in default"},
		DefaultCategory: ResolvedValue{Value: "M.0.EL", Source: SourceDefault, From: "built-in default"},
		DefaultEntity:   ResolvedValue{Value: "KYOTOGHG (AR6GWP100)", Source: SourceDefault, From: "built-in default"},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.DatasetPath, cfg.Dataset, SourceConfig, path)
		apply(&out.NotesDBPath, cfg.NotesDB, SourceConfig, path)
		apply(&out.Port, cfg.Port, SourceConfig, path)
		apply(&out.DefaultCountry, cfg.Default.Country, SourceConfig, path)
		apply(&out.DefaultCategory, cfg.Default.Category, SourceConfig, path)
		apply(&out.DefaultEntity, cfg.Default.Entity, SourceConfig, path)
	}

	applyEnv(&out.DatasetPath, "GHGDASH_DATASET")
	applyEnv(&out.NotesDBPath, "GHGDASH_NOTES_DB")
	applyEnv(&out.Port, "GHGDASH_PORT")
	applyEnv(&out.DefaultCountry, "GHGDASH_COUNTRY")

	apply(&out.DatasetPath, opts.CLIDataset, SourceCLI, "--dataset")
	apply(&out.NotesDBPath, opts.CLINotesDB, SourceCLI, "--notes-db")
	apply(&out.Port, opts.CLIPort, SourceCLI, "--port")
	apply(&out.DefaultCountry, opts.CLICountry, SourceCLI, "--country")

	if out.DatasetPath.Value != "" {
		out.DatasetPath.Value = expandUserPath(out.DatasetPath.Value)
	}
	if out.NotesDBPath.Value != "" {
		out.NotesDBPath.Value = expandUserPath(out.NotesDBPath.Value)
	}
	return out, nil
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
