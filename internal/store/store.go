package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/slate-tui/slate/internal/domain"
)

var bucketSnapshots = []byte("snapshots")

// SnapshotStore persists the whole application snapshot, one JSON document
// per user, in a bbolt database under a per-server cache directory.
//
// Persistence is strictly best-effort: a failed Save is reported to the
// caller as advisory text, and a failed Load means "no cache", never a fatal
// condition.
type SnapshotStore struct {
	db  *bolt.DB
	key []byte

	// In-memory fallback when no cache directory is available.
	mem []byte
}

// Open opens (creating as needed) the snapshot store for one server and
// user. An empty baseCacheDir yields a memory-only store with no
// persistence.
func Open(baseCacheDir, serverURL, userKey string) (*SnapshotStore, error) {
	key := []byte(hashKey(userKey))
	if baseCacheDir == "" {
		return &SnapshotStore{key: key}, nil
	}

	dir := filepath.Join(baseCacheDir, hashKey(serverURL))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "slate.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, key: key}, nil
}

// hashKey normalizes and hashes an identifying string for use as a
// directory name or bucket key.
func hashKey(s string) string {
	normalized := strings.TrimRight(strings.ToLower(s), "/")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:6])
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save writes the snapshot as one JSON document, replacing any previous one
// for this user.
func (s *SnapshotStore) Save(snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if s.db == nil {
		s.mem = data
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put(s.key, data)
	})
}

// Load reads this user's snapshot back. Any missing, unreadable, or
// unparsable state reports ok=false.
func (s *SnapshotStore) Load() (*domain.Snapshot, bool) {
	var data []byte
	if s.db == nil {
		data = s.mem
	} else {
		s.db.View(func(tx *bolt.Tx) error {
			if v := tx.Bucket(bucketSnapshots).Get(s.key); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
	}
	if data == nil {
		return nil, false
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Clear drops this user's snapshot.
func (s *SnapshotStore) Clear() {
	if s.db == nil {
		s.mem = nil
		return
	}
	s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete(s.key)
	})
}
