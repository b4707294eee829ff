// Package annotate is the annotation synchronization engine: a local
// per-video store, the merge rules for server-origin annotations, the sync
// session driving fetch-merge-acknowledge cycles, the push listener and the
// share dispatcher.
package annotate

import "context"

type userKey struct{}

// WithUser returns a copy of ctx carrying the acting user's name.
func WithUser(ctx context.Context, userName string) context.Context {
	return context.WithValue(ctx, userKey{}, userName)
}

// UserFromContext returns the user name set by WithUser.
func UserFromContext(ctx context.Context) (string, bool) {
	userName, ok := ctx.Value(userKey{}).(string)
	return userName, ok && userName != ""
}

// RootKey is the persistent key under which every resource entry is nested.
const RootKey = "annotations"

// Annotation is a timestamped note as stored locally.
type Annotation struct {
	Content string  `json:"content" yaml:"content"`
	Time    float64 `json:"time" yaml:"time"`
}

// RemoteAnnotation is an annotation as delivered by the remote service.
// ID only exists to acknowledge the record and is never persisted locally.
type RemoteAnnotation struct {
	ID      string  `json:"_id"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Time    float64 `json:"time"`
}

// Local drops the server-only fields.
func (r RemoteAnnotation) Local() Annotation {
	return Annotation{Content: r.Content, Time: r.Time}
}

// TimeUpdate is emitted by the player roughly once per second.
type TimeUpdate struct {
	CurrentTime float64
	TotalTime   float64
}

// Remote is the annotation service the engine synchronizes with.
type Remote interface {
	// Matching returns every annotation recorded for userName.
	Matching(ctx context.Context, userName string) ([]RemoteAnnotation, error)
	// Delete acknowledges a consumed record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
	// Share records annotation for targetUser.
	Share(ctx context.Context, resourceID string, annotation Annotation, targetUser string) error
}

// Player is the host video player.
type Player interface {
	CurrentURL() string
	SubscribeTime(fn func(TimeUpdate)) (unsubscribe func())
	Seek(seconds float64) error
}

// View renders the annotations of the displayed resource.
type View interface {
	Render(resourceID string, annotations []Annotation)
}

// Logger matches the structured logger used across the repository.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}
