package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"video-annotate/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SharedAnnotationRepository keeps pending shares in process memory.
// Used when no database is configured and in tests.
type SharedAnnotationRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
	seq   uint64
}

type sharedRecord struct {
	annotation entity.SharedAnnotation
	seq        uint64
}

// NewSharedAnnotationRepository creates a repository whose records expire
// after ttl if never fetched. A zero ttl keeps them until acknowledged.
func NewSharedAnnotationRepository(ttl time.Duration) *SharedAnnotationRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &SharedAnnotationRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SharedAnnotationRepository) Create(_ context.Context, annotation *entity.SharedAnnotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if annotation.Id == uuid.Nil {
		annotation.Id = uuid.New()
	}
	if annotation.CreatedAt.IsZero() {
		annotation.CreatedAt = time.Now()
	}
	r.seq++
	r.cache.Set(annotation.Id.String(), &sharedRecord{annotation: *annotation, seq: r.seq}, cache.DefaultExpiration)
	return nil
}

func (r *SharedAnnotationRepository) FindByTargetUser(_ context.Context, user string) ([]*entity.SharedAnnotation, error) {
	var records []*sharedRecord
	for _, item := range r.cache.Items() {
		rec := item.Object.(*sharedRecord)
		if rec.annotation.TargetUser == user {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	out := make([]*entity.SharedAnnotation, 0, len(records))
	for _, rec := range records {
		copied := rec.annotation
		out = append(out, &copied)
	}
	return out, nil
}

func (r *SharedAnnotationRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.cache.Get(id.String()); !found {
		return false, nil
	}
	r.cache.Delete(id.String())
	return true, nil
}

func (r *SharedAnnotationRepository) Count(_ context.Context) (int64, error) {
	return int64(r.cache.ItemCount()), nil
}
