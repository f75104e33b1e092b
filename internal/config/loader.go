package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/sqlint/pkg/core"
)

// MaxUpwardSearchLevels bounds the search for a config file in parent
// directories.
const MaxUpwardSearchLevels = 10

// FindConfigFile returns the config file in dir, or "" when there is none.
func FindConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory holding a
// config file. Returns "" if none is found within MaxUpwardSearchLevels.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for range MaxUpwardSearchLevels {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// ParserFor picks the koanf parser for a config file by extension.
func ParserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML()
	}
	return yaml.Parser()
}

// LoadFile merges a config file into k.
func LoadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), ParserFor(path)); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return nil
}

// Unmarshal decodes k into a core.Config.
func Unmarshal(k *koanf.Koanf) (*core.Config, error) {
	cfg := core.DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

// LoadFromDir loads the configuration found in dir on top of the defaults.
// A directory without a config file yields the defaults.
func LoadFromDir(dir string) (*core.Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if path := FindConfigFile(dir); path != "" {
		if err := LoadFile(k, path); err != nil {
			return nil, err
		}
	}
	return Unmarshal(k)
}
