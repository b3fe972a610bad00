package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultAPIURL = "https://notesserver-alpha.vercel.app"

// ClientConfig holds the terminal client settings.
type ClientConfig struct {
	APIURL   string
	Timeout  time.Duration
	LogFile  string
	LogLevel string
	Splash   time.Duration
}

// LoadClient resolves the client settings: defaults, then the YAML file at
// path (ClientConfigPath when empty), then NOTESIN_* environment variables.
// A missing file is not an error.
func LoadClient(path string) (ClientConfig, error) {
	loadDotEnv()

	cfg, err := defaultClientConfig()
	if err != nil {
		return ClientConfig{}, err
	}

	if path == "" {
		path, err = ClientConfigPath()
		if err != nil {
			return ClientConfig{}, err
		}
	}
	if err := mergeClientFile(&cfg, path); err != nil {
		return ClientConfig{}, err
	}

	cfg.APIURL = getenv("NOTESIN_API_URL", cfg.APIURL)
	cfg.Timeout = getenvDuration("NOTESIN_TIMEOUT", cfg.Timeout)
	cfg.LogFile = getenv("NOTESIN_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getenv("NOTESIN_LOG_LEVEL", cfg.LogLevel)
	cfg.Splash = getenvDuration("NOTESIN_SPLASH", cfg.Splash)
	return cfg, nil
}

// ClientConfigPath returns ~/.config/notesin/config.yaml.
func ClientConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "notesin", "config.yaml"), nil
}

func defaultClientConfig() (ClientConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return ClientConfig{}, fmt.Errorf("get home dir: %w", err)
	}
	return ClientConfig{
		APIURL:   DefaultAPIURL,
		LogFile:  filepath.Join(home, ".local", "state", "notesin", "notesin.log"),
		LogLevel: "info",
		Splash:   3 * time.Second,
	}, nil
}

// clientFile is the YAML form of ClientConfig. A key present in the file
// overrides the default even when its value is zero.
type clientFile struct {
	APIURL   *string        `yaml:"api_url"`
	Timeout  *time.Duration `yaml:"timeout"`
	LogFile  *string        `yaml:"log_file"`
	LogLevel *string        `yaml:"log_level"`
	Splash   *time.Duration `yaml:"splash"`
}

func mergeClientFile(cfg *ClientConfig, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var file clientFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}

	if file.APIURL != nil {
		cfg.APIURL = *file.APIURL
	}
	if file.Timeout != nil {
		cfg.Timeout = *file.Timeout
	}
	if file.LogFile != nil {
		cfg.LogFile = *file.LogFile
	}
	if file.LogLevel != nil {
		cfg.LogLevel = *file.LogLevel
	}
	if file.Splash != nil {
		cfg.Splash = *file.Splash
	}
	return nil
}
