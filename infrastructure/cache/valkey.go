package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"
)

const (
	// valkeyOpTimeout bounds every mirror round trip so a slow valkey can
	// never stall a request; the mirror is best-effort by contract.
	valkeyOpTimeout      = 500 * time.Millisecond
	valkeyConnectTimeout = 5 * time.Second
	valkeyScanBatch      = 100
)

// ValkeyConfig holds the configuration for the shared mirror backend.
type ValkeyConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// valkeyMirror shares cache entries between processes through a valkey
// instance. Keys are namespaced with the configured prefix.
type valkeyMirror struct {
	inner     valkeylib.Client
	keyPrefix string
}

// OpenValkey connects to valkey and verifies the connection with a ping.
func OpenValkey(cfg ValkeyConfig) (Mirror, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), valkeyConnectTimeout)
	defer cancel()
	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}

	return &valkeyMirror{inner: inner, keyPrefix: prefix}, nil
}

func (v *valkeyMirror) key(k string) string {
	return v.keyPrefix + "cache:" + k
}

func (v *valkeyMirror) Get(key string) ([]byte, time.Time, error) {
	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()

	k := v.key(key)
	data, err := v.inner.Do(ctx, v.inner.B().Get().Key(k).Build()).AsBytes()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, err
	}

	// Valkey expires keys itself; PTTL only recovers the absolute expiry
	// so the in-memory layer can be re-seeded with the remaining window.
	ttlMs, err := v.inner.Do(ctx, v.inner.B().Pttl().Key(k).Build()).AsInt64()
	if err != nil || ttlMs <= 0 {
		return nil, time.Time{}, ErrExpired
	}

	return data, time.Now().Add(time.Duration(ttlMs) * time.Millisecond), nil
}

func (v *valkeyMirror) Put(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()

	cmd := v.inner.B().Set().Key(v.key(key)).Value(valkeylib.BinaryString(value)).
		PxMilliseconds(ttl.Milliseconds()).Build()
	return v.inner.Do(ctx, cmd).Error()
}

func (v *valkeyMirror) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()
	return v.inner.Do(ctx, v.inner.B().Del().Key(v.key(key)).Build()).Error()
}

func (v *valkeyMirror) DeletePrefix(prefix string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	match := v.key(prefix) + "*"
	var cursor uint64
	for {
		resp, err := v.inner.Do(ctx, v.inner.B().Scan().Cursor(cursor).Match(match).Count(valkeyScanBatch).Build()).AsScanEntry()
		if err != nil {
			return err
		}
		if len(resp.Elements) > 0 {
			if err := v.inner.Do(ctx, v.inner.B().Del().Key(resp.Elements...).Build()).Error(); err != nil {
				return err
			}
		}
		cursor = resp.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

func (v *valkeyMirror) Close() error {
	if v.inner != nil {
		v.inner.Close()
	}
	return nil
}
