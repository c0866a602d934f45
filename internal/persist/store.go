package persist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Record is one saved revision of a document.
type Record struct {
	Key      string    `yaml:"key"`
	Revision string    `yaml:"revision"`
	SavedAt  time.Time `yaml:"saved_at"`
	Text     string    `yaml:"text"`
}

// Store saves and loads document text by key.
type Store interface {
	// Load returns the newest record for key, or ErrNotFound.
	Load(ctx context.Context, key string) (Record, error)

	// Save stores text under key as a new revision.
	Save(ctx context.Context, key, text string) (Record, error)

	// Delete removes the record for key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
}

func newRecord(key, text string, now time.Time) Record {
	return Record{
		Key:      key,
		Revision: ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		SavedAt:  now.UTC(),
		Text:     text,
	}
}

// MemoryStore is a Store kept in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, key string) (Record, error) {
	if err := checkKey("load", key); err != nil {
		return Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[key]
	if !ok {
		return Record{}, &KeyError{Op: "load", Key: key, Err: ErrNotFound}
	}
	return rec, nil
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, key, text string) (Record, error) {
	if err := checkKey("save", key); err != nil {
		return Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	rec := newRecord(key, text, m.now())

	m.mu.Lock()
	m.records[key] = rec
	m.mu.Unlock()
	return rec, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.records, key)
	m.mu.Unlock()
	return nil
}

// Keys implements Store.
func (m *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}
