// Package ledger keeps an advisory journal of block and unblock events in a
// Bolt database. The hosts file remains the single source of truth; the
// ledger only decorates listings with history.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bbolt "go.etcd.io/bbolt"

	"gwd/internal/guard/common/clock"
)

var (
	bucketEvents  = []byte("events")
	bucketDomains = []byte("domains")
)

// Actions recorded in the journal.
const (
	ActionBlock   = "block"
	ActionUnblock = "unblock"
)

// Event is one recorded mutation.
type Event struct {
	At     time.Time
	Domain string
	Action string
}

// Store is a Bolt-backed event journal.
type Store struct {
	db  *bbolt.DB
	clk clock.Clock
}

// Open opens (or creates) the journal at path and ensures buckets exist.
// The parent directory is created when missing.
func Open(path string, clk clock.Clock) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketEvents); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketDomains); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, clk: clk}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record appends an event to the journal and updates the per-domain
// last-blocked timestamp (set on block, cleared on unblock).
func (s *Store) Record(domain, action string) error {
	at := s.clk.Now().UTC()
	return s.db.Update(func(tx *bbolt.Tx) error {
		events := tx.Bucket(bucketEvents)
		key := at.Format(time.RFC3339Nano) + "|" + domain
		if err := events.Put([]byte(key), []byte(action)); err != nil {
			return err
		}

		domains := tx.Bucket(bucketDomains)
		switch action {
		case ActionBlock:
			return domains.Put([]byte(domain), []byte(at.Format(time.RFC3339Nano)))
		case ActionUnblock:
			return domains.Delete([]byte(domain))
		default:
			return fmt.Errorf("unsupported ledger action: %q", action)
		}
	})
}

// BlockedSince returns when the domain was last blocked, if it is currently
// recorded as blocked.
func (s *Store) BlockedSince(domain string) (time.Time, bool, error) {
	var (
		at      time.Time
		present bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketDomains).Get([]byte(domain))
		if v == nil {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, string(v))
		if err != nil {
			return fmt.Errorf("corrupt ledger timestamp for %q: %s", domain, string(v))
		}
		at = parsed
		present = true
		return nil
	})
	return at, present, err
}

// History returns all recorded events in chronological order.
func (s *Store) History() ([]Event, error) {
	var out []Event
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).ForEach(func(k, v []byte) error {
			stamp, domain, ok := strings.Cut(string(k), "|")
			if !ok {
				return fmt.Errorf("corrupt ledger event key: %q", string(k))
			}
			at, err := time.Parse(time.RFC3339Nano, stamp)
			if err != nil {
				return fmt.Errorf("corrupt ledger event timestamp: %q", stamp)
			}
			out = append(out, Event{At: at, Domain: domain, Action: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
