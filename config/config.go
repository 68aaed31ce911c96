package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds the server settings loaded from a YAML file. Every field
// has a usable default so `votingd serve` works with no file at all.
type Config struct {
	ListenAddress string `yaml:"listenAddress"`
	DataDir       string `yaml:"dataDir"`
	AdminToken    string `yaml:"adminToken"`
	LogLevel      string `yaml:"logLevel"`
}

func Default() *Config {
	return &Config{
		ListenAddress: ":8080",
		DataDir:       "./data",
		AdminToken:    "",
		LogLevel:      "info",
	}
}

// Load reads the config file at path, falling back to defaults for any
// field the file omits. A missing file is not an error; a malformed one
// is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return cfg, nil
}
