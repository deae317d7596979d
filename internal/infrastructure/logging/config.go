package logging

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for logger bootstrap.
var (
	// ErrReadConfig is returned when the logging config file cannot be read.
	ErrReadConfig = errors.New("logging: cannot read config file")

	// ErrParseConfig is returned when the logging config file is not valid YAML.
	ErrParseConfig = errors.New("logging: cannot parse config file")
)

// Config contains logging settings read from the logging config file.
type Config struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format"`
	Output string     `yaml:"output"`
	File   FileConfig `yaml:"file"`
}

// FileConfig contains file-based logging settings.
type FileConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// defaultConfig returns the settings used for keys missing from the file.
func defaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
		File: FileConfig{
			Path:       "logs/homenet.log",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
		},
	}
}

// LoadConfig reads a YAML logging config file over the defaults.
//
// Returns:
//   - Config: Parsed configuration
//   - error: ErrReadConfig or ErrParseConfig wrapped with the cause
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrReadConfig, path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrParseConfig, path, err)
	}

	return cfg, nil
}
