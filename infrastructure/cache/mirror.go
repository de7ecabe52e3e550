package cache

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("cache: not found")
	ErrExpired  = errors.New("cache: expired")
)

// Mirror is an optional durable copy of the response cache, used to survive
// process restarts (bolt) or to share entries between processes (valkey).
// All mirror traffic is best-effort: the response cache swallows mirror
// errors. Implementations must be safe for concurrent use.
type Mirror interface {
	// Get returns the stored value and its absolute expiry. Expired or
	// missing entries return ErrExpired / ErrNotFound.
	Get(key string) ([]byte, time.Time, error)
	Put(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	DeletePrefix(prefix string) error
	Close() error
}
