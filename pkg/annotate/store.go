package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// KV is the persistent key-value backend of the local store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store keeps every resource's annotations in a single record under RootKey.
// All writes go through one mutex because the backend offers no
// transaction across a read followed by a write.
type Store struct {
	kv KV
	mu sync.Mutex
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// ReadAll returns the persisted mapping. A missing root key yields an empty mapping.
func (s *Store) ReadAll(ctx context.Context) (map[string][]Annotation, error) {
	data, ok, err := s.kv.Get(ctx, RootKey)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, RootKey, err)
	}
	all := make(map[string][]Annotation)
	if !ok || len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, RootKey, err)
	}
	return all, nil
}

// ReadResource returns the entry for resourceID, empty if absent.
func (s *Store) ReadResource(ctx context.Context, resourceID string) ([]Annotation, error) {
	all, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	entry := all[resourceID]
	if entry == nil {
		return []Annotation{}, nil
	}
	return entry, nil
}

// Append adds annotation to the end of resourceID's sequence and persists it.
func (s *Store) Append(ctx context.Context, resourceID string, annotation Annotation) error {
	_, err := s.update(ctx, resourceID, annotation, false)
	return err
}

// AppendIfAbsent appends unless the resource already holds an annotation with
// the same time. It reports whether a write happened.
func (s *Store) AppendIfAbsent(ctx context.Context, resourceID string, annotation Annotation) (bool, error) {
	return s.update(ctx, resourceID, annotation, true)
}

func (s *Store) update(ctx context.Context, resourceID string, annotation Annotation, dedup bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.ReadAll(ctx)
	if err != nil {
		return false, err
	}

	entry := all[resourceID]
	if dedup && containsTime(entry, annotation.Time) {
		return false, nil
	}
	all[resourceID] = append(entry, annotation)

	data, err := json.Marshal(all)
	if err != nil {
		return false, fmt.Errorf("%w: encode %s: %v", ErrStorage, RootKey, err)
	}
	if err := s.kv.Set(ctx, RootKey, data); err != nil {
		return false, fmt.Errorf("%w: write %s: %v", ErrStorage, RootKey, err)
	}
	return true, nil
}

func containsTime(entry []Annotation, t float64) bool {
	for _, existing := range entry {
		if existing.Time == t {
			return true
		}
	}
	return false
}
