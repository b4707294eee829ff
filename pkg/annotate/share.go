package annotate

import (
	"context"
	"errors"
	"fmt"
)

// Sharer sends every annotation of a resource to another user.
// It never touches the local store beyond reading it.
type Sharer struct {
	store  *Store
	remote Remote
	logger Logger
}

func NewSharer(store *Store, remote Remote, logger Logger) *Sharer {
	return &Sharer{store: store, remote: remote, logger: logger}
}

// ShareResource issues one share request per annotation of resourceID and
// returns how many succeeded. A failed request does not stop the others.
func (s *Sharer) ShareResource(ctx context.Context, resourceID, targetUser string) (int, error) {
	annotations, err := s.store.ReadResource(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, a := range annotations {
		if err := s.remote.Share(ctx, resourceID, a, targetUser); err != nil {
			s.logger.Warn("Sharer", "Failed to share annotation", map[string]interface{}{
				"url":    resourceID,
				"time":   a.Time,
				"target": targetUser,
				"error":  err.Error(),
			})
			errs = append(errs, fmt.Errorf("share at %v: %w", a.Time, err))
			continue
		}
		sent++
	}

	s.logger.Info("Sharer", "Shared resource annotations", map[string]interface{}{
		"url":    resourceID,
		"target": targetUser,
		"sent":   sent,
		"failed": len(errs),
	})
	return sent, errors.Join(errs...)
}
