package config

import (
	"os"
	"path/filepath"
	"reflect"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const configFileName = "ytdl"

// Config holds the configuration options for the application.
type Config struct {
	DownloadDir    string `yaml:"downloadDir,omitempty"`
	OutputTemplate string `yaml:"outputTemplate,omitempty"`
	Binary         string `yaml:"binary,omitempty"`
	Retries        int    `yaml:"retries,omitempty"`
	ArchiveName    string `yaml:"archiveName,omitempty"`
	UpdateOnStart  *bool  `yaml:"updateOnStart,omitempty"`
}

// ShouldUpdateOnStart reports whether the pre-flight yt-dlp self-update
// step is enabled.
func (c *Config) ShouldUpdateOnStart() bool {
	if c.UpdateOnStart == nil {
		return updateOnStart
	}

	return *c.UpdateOnStart
}

// GetConfig reads the configuration file and returns a Config struct.
// If the configuration file does not exist, it returns the default configuration.
func GetConfig() (*Config, error) {
	configFilePath := filepath.Join(xdg.ConfigHome, configFileName)
	defaults := DefaultConfig()

	b, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &defaults, nil
		}

		return nil, err
	}

	if len(b) == 0 {
		return &defaults, nil
	}

	var cfg Config

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return nil, err
	}

	return &Config{
		DownloadDir:    zeroOr(cfg.DownloadDir, defaults.DownloadDir),
		OutputTemplate: zeroOr(cfg.OutputTemplate, defaults.OutputTemplate),
		Binary:         zeroOr(cfg.Binary, defaults.Binary),
		Retries:        zeroOr(cfg.Retries, defaults.Retries),
		ArchiveName:    zeroOr(cfg.ArchiveName, defaults.ArchiveName),
		UpdateOnStart:  cfg.UpdateOnStart,
	}, nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DownloadDir:    downloadDir,
		OutputTemplate: outputTemplate,
		Binary:         binaryName,
		Retries:        retryCount,
		ArchiveName:    archiveName,
	}
}

// zeroOr returns def if v is the zero value for its type.
func zeroOr[T any](v, def T) T {
	if reflect.ValueOf(v).IsZero() {
		return def
	}

	return v
}
