package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"LECTERN_API_URL" env-default:"http://localhost:3000"`
	Timeout   time.Duration `yaml:"timeout" env:"LECTERN_API_TIMEOUT" env-default:"5s"`
	RateLimit int           `yaml:"rate_limit" env:"LECTERN_API_RATE_LIMIT" env-default:"10"`
}

type ReaderConfig struct {
	SectionWords int `yaml:"section_words" env:"LECTERN_SECTION_WORDS" env-default:"300"`
}

type LibraryConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"LECTERN_POLL_INTERVAL" env-default:"10s"`
}

type Config struct {
	LogLevel string        `yaml:"log_level" env:"LECTERN_LOG_LEVEL" env-default:"INFO"`
	LogFile  string        `yaml:"log_file" env:"LECTERN_LOG_FILE"`
	DataDir  string        `yaml:"data_dir" env:"LECTERN_DATA_DIR"`
	API      APIConfig     `yaml:"api"`
	Reader   ReaderConfig  `yaml:"reader"`
	Library  LibraryConfig `yaml:"library"`

	DBPath string `yaml:"-" env:"-"`
}

// Overrides carries command line flags, which win over file and env values.
type Overrides struct {
	DataDir string
	APIURL  string
}

// Load reads an optional .env file from the working directory, then the yaml
// file at path (skipped when empty or missing), then the environment.
func Load(path string, overrides Overrides) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from env: %w", err)
	}

	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}
	if overrides.APIURL != "" {
		cfg.API.BaseURL = overrides.APIURL
	}
	return finalize(cfg)
}

func finalize(cfg Config) (Config, error) {
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".lectern")
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("api base url is required")
	}
	if cfg.Reader.SectionWords <= 0 {
		return Config{}, fmt.Errorf("reader.section_words must be positive")
	}
	if cfg.Library.PollInterval <= 0 {
		cfg.Library.PollInterval = 10 * time.Second
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "lectern.log")
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, "lectern.db")
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
