package history

import (
	"fmt"
	"path/filepath"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend Backend
	// Path is the JSON file for BackendFile and the database for BackendSQLite.
	// When it is a directory, a default file name is used inside it.
	Path        string
	RedisURL    string
	RedisPrefix string
}

// Open returns the Store described by `opts`.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(resolvePath(opts.Path, FileName)), nil
	case BackendSQLite:
		return NewSQLStore(resolvePath(opts.Path, "svgpng.db.sqlite"))
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis history requires a url")
		}
		return NewRedisStore(opts.RedisURL, opts.RedisPrefix)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", opts.Backend)
	}
}

func resolvePath(path, name string) string {
	if path == "" {
		return name
	}
	if filepath.Ext(path) == "" {
		return filepath.Join(path, name)
	}
	return path
}
