package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrUnknownBackend = errors.New("storage: unknown backend")
	ErrEmptyKey       = errors.New("storage: empty key")
)

// Document keys. Each key holds one JSON document.
const (
	KeyRoutines  = "lifehub.routines.v1"
	KeyHistory   = "lifehub.history.v1"
	KeyTemplates = "lifehub.templates.v1"
)

// KV is the persistence collaborator: whole documents read and written by key.
type KV interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendFile, BackendMemory:
		return true
	default:
		return false
	}
}

type Options struct {
	Backend Backend
	// Driver selects the database/sql driver for the sqlite backend:
	// "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string
	Path   string
}

// Store is a KV that owns resources.
type Store interface {
	KV
	Close() error
}

func Open(opts Options) (Store, error) {
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case BackendSQLite, "":
		kv, err := OpenSQLite(opts.Driver, opts.Path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendFile:
		kv, err := NewFileKV(opts.Path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
