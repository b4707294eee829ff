package annotate

import (
	"context"
	"math"
)

// MergeResult tells whether a server annotation was stored.
type MergeResult int

const (
	MergeAppended MergeResult = iota
	MergeSkipped
)

func (r MergeResult) String() string {
	if r == MergeSkipped {
		return "skipped"
	}
	return "appended"
}

// Merger incorporates local and server-origin annotations into the store.
//
// Time equality is the only identity key: two distinct annotations at the
// same instant of the same video collapse into the first one merged, and a
// redelivered server annotation is stored once.
type Merger struct {
	store *Store
}

func NewMerger(store *Store) *Merger {
	return &Merger{store: store}
}

// MergeLocal appends a note saved by the viewer. Local saves are never deduplicated.
// An unknown or negative time is stored as 0.
func (m *Merger) MergeLocal(ctx context.Context, resourceID, content string, currentTime float64) error {
	if math.IsNaN(currentTime) || math.IsInf(currentTime, 0) || currentTime < 0 {
		currentTime = 0
	}
	return m.store.Append(ctx, resourceID, Annotation{Content: content, Time: currentTime})
}

// MergeServerAnnotation appends annotation under its URL unless that URL already
// holds an annotation at the same time.
func (m *Merger) MergeServerAnnotation(ctx context.Context, annotation RemoteAnnotation) (MergeResult, error) {
	appended, err := m.store.AppendIfAbsent(ctx, annotation.URL, annotation.Local())
	if err != nil {
		return MergeSkipped, err
	}
	if !appended {
		return MergeSkipped, nil
	}
	return MergeAppended, nil
}
