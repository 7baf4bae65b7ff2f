// Package config loads the tool configuration from a YAML file,
// ANKISMITH_* environment variables, and command-line flags, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "ANKISMITH_"

// Config is the fully resolved tool configuration.
type Config struct {
	// Deck is the name of the deck (and topic) the package is built for.
	Deck string `koanf:"deck" validate:"required"`
	// Out is the directory the .apkg archive is written to.
	Out string `koanf:"out" validate:"required"`
	// Sources are directories or git URLs holding .cards files.
	Sources []string `koanf:"sources" validate:"min=1,dive,required"`
	// Strict aborts the whole run on the first malformed card instead of
	// skipping it.
	Strict bool `koanf:"strict"`
	// CacheDir is where git sources are checked out.
	CacheDir string `koanf:"cache-dir" validate:"required"`
}

// Load resolves the configuration. The config file named by the "config"
// flag is optional; a missing file is only an error when the flag was set
// explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read config flag: %w", err)
	}
	if _, statErr := os.Stat(cfgPath); statErr == nil {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfgPath, err)
		}
	} else if flags.Changed("config") {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgPath, statErr)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
