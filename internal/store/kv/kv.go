// Package kv provides the durable key-value slot the board persists into.
// Values are opaque strings (JSON documents in practice).
package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Store is a string-keyed durable slot. Get reports absence with ok=false
// and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options select and configure a backend.
type Options struct {
	Backend     string
	Dir         string // file and sqlite backends
	RedisURL    string
	RedisPrefix string
}

// Open builds the backend named by opt.Backend ("" means file).
func Open(ctx context.Context, opt Options) (Store, error) {
	switch strings.ToLower(opt.Backend) {
	case "", BackendFile:
		return NewFile(opt.Dir)
	case BackendSQLite:
		return NewSQLite(filepath.Join(opt.Dir, "ucc.db"))
	case BackendRedis:
		ro, err := redis.ParseURL(opt.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		client := redis.NewClient(ro)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedis(client, opt.RedisPrefix), nil
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", opt.Backend)
}
