package contract

import (
	"context"

	"video-annotate/internal/entity"

	"github.com/google/uuid"
)

type SharedAnnotationRepository interface {
	Create(ctx context.Context, annotation *entity.SharedAnnotation) error
	// FindByTargetUser returns pending annotations for user, oldest first.
	FindByTargetUser(ctx context.Context, user string) ([]*entity.SharedAnnotation, error)
	// Delete removes id and reports whether a row existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
