// Package store persists the application state as string values under string keys.
//
// A Storage is synchronous and keys are independent: there is no atomicity
// across keys, the last write of a key wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for keys that cannot be stored.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a flat key-value store.
type Storage interface {
	// Get returns the value of key, ok is false if the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value of key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key, deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
}

// Driver names the Storage implementation to open.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverDir    Driver = "dir"
	DriverRedis  Driver = "redis"
	DriverMongo  Driver = "mongo"
)

// Options selects and configures a Storage.
type Options struct {
	Driver          Driver
	Dir             string // DriverDir: data directory
	RedisAddr       string // DriverRedis: host:port
	RedisPrefix     string // DriverRedis: namespace prepended to every key
	MongoURI        string // DriverMongo: connection string
	MongoDatabase   string
	MongoCollection string
}

// Open returns the Storage described by o.
//
// Network backed storages are checked with a ping. They also implement
// io.Closer and should be closed by the caller.
func Open(ctx context.Context, o Options) (Storage, error) {
	switch o.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverDir, "":
		return NewDir(o.Dir)
	case DriverRedis:
		return DialRedis(ctx, o.RedisAddr, o.RedisPrefix)
	case DriverMongo:
		return ConnectMongo(ctx, o.MongoURI, o.MongoDatabase, o.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown storage driver %q, want one of %q, %q, %q or %q", o.Driver, DriverMemory, DriverDir, DriverRedis, DriverMongo)
	}
}

// checkKey rejects keys that are empty or would escape a namespace.
func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\:*?`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return nil
}
