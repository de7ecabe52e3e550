package cache

import (
	"bytes"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "responses"

// boltMirror persists cache entries in a local bbolt file.
// Layout per value: 8 bytes big endian unix expiry || raw payload.
type boltMirror struct {
	db *bolt.DB
}

// OpenBolt initializes or opens the durable mirror at the given path.
func OpenBolt(path string) (Mirror, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltMirror{db: db}, nil
}

func (b *boltMirror) Get(key string) ([]byte, time.Time, error) {
	var out []byte
	var expiresAt time.Time
	var found, expired bool

	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v == nil || len(v) < 8 {
			return nil
		}
		found = true
		exp := int64(binary.BigEndian.Uint64(v[:8]))
		expiresAt = time.Unix(exp, 0)
		if time.Now().Unix() >= exp {
			expired = true
			return nil
		}
		out = append([]byte(nil), v[8:]...)
		return nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	if !found {
		return nil, time.Time{}, ErrNotFound
	}
	if expired {
		// Lazily drop the stale entry; a failed delete just leaves it
		// for the next read.
		_ = b.Delete(key)
		return nil, time.Time{}, ErrExpired
	}
	return out, expiresAt, nil
}

func (b *boltMirror) Put(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(time.Now().Add(ttl).Unix()))
	copy(buf[8:], value)

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), buf)
	})
}

func (b *boltMirror) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
}

func (b *boltMirror) DeletePrefix(prefix string) error {
	p := []byte(prefix)
	return b.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(boltBucket)).Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltMirror) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
