package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/ucc/internal/board"
	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/store/kv"
)

const (
	DefaultBackend   = kv.BackendFile
	DefaultRedisURL  = "redis://localhost:6379/0"
	DefaultSaveDelay = "500ms"
	DefaultTheme     = "classic"
	DefaultBoard     = "personal"
)

type Config struct {
	DataDir string        `json:"dataDir"`
	Storage StorageConfig `json:"storage"`
	Board   BoardConfig   `json:"board"`
	Author  AuthorConfig  `json:"author"`
	Theme   string        `json:"theme"`
	Debug   bool          `json:"debug,omitempty"`
}

type StorageConfig struct {
	Backend     string `json:"backend"` // file | sqlite | redis | memory
	RedisURL    string `json:"redisUrl,omitempty"`
	RedisPrefix string `json:"redisPrefix,omitempty"`
}

type BoardConfig struct {
	SaveDelay string `json:"saveDelay"`
	Default   string `json:"default"`
}

// AuthorConfig is the single identity comments are attributed to.
type AuthorConfig struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: ConfigDir(),
		Storage: StorageConfig{
			Backend:     DefaultBackend,
			RedisURL:    DefaultRedisURL,
			RedisPrefix: kv.DefaultRedisPrefix,
		},
		Board: BoardConfig{
			SaveDelay: DefaultSaveDelay,
			Default:   DefaultBoard,
		},
		Author: AuthorConfig{
			Name:     board.DefaultAuthorName,
			Initials: board.DefaultAuthorInitials,
		},
		Theme: DefaultTheme,
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".ucc")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// LoadConfig starts from defaults, overlays ~/.ucc/config.json when present,
// then UCC_* environment variables.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.DataDir = getEnv("UCC_DATA_DIR", cfg.DataDir)
	cfg.Storage.Backend = getEnv("UCC_BACKEND", cfg.Storage.Backend)
	cfg.Storage.RedisURL = getEnv("UCC_REDIS_URL", cfg.Storage.RedisURL)
	cfg.Storage.RedisPrefix = getEnv("UCC_REDIS_PREFIX", cfg.Storage.RedisPrefix)
	cfg.Board.SaveDelay = getEnv("UCC_SAVE_DELAY", cfg.Board.SaveDelay)
	cfg.Board.Default = getEnv("UCC_BOARD", cfg.Board.Default)
	cfg.Author.Name = getEnv("UCC_AUTHOR_NAME", cfg.Author.Name)
	cfg.Author.Initials = getEnv("UCC_AUTHOR_INITIALS", cfg.Author.Initials)
	cfg.Theme = getEnv("UCC_THEME", cfg.Theme)
	cfg.Debug = getEnvAsBool("UCC_DEBUG", cfg.Debug)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendRedis, kv.BackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if _, err := c.SaveDelay(); err != nil {
		return err
	}
	if _, err := model.ParseList(c.Board.Default); err != nil {
		return fmt.Errorf("board.default: %w", err)
	}
	return nil
}

// SaveDelay parses the debounce delay for field edits.
func (c *Config) SaveDelay() (time.Duration, error) {
	if c.Board.SaveDelay == "" {
		return board.DefaultSaveDelay, nil
	}
	d, err := time.ParseDuration(c.Board.SaveDelay)
	if err != nil {
		return 0, fmt.Errorf("board.saveDelay: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("board.saveDelay: must be positive, got %s", d)
	}
	return d, nil
}

// KVOptions maps the storage section onto kv.Open options.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend:     c.Storage.Backend,
		Dir:         c.DataDir,
		RedisURL:    c.Storage.RedisURL,
		RedisPrefix: c.Storage.RedisPrefix,
	}
}

// Save writes the config file, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), b, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
