package implementation

import (
	"context"

	"video-annotate/internal/entity"
	"video-annotate/internal/mapper"
	"video-annotate/internal/model"
	"video-annotate/internal/repository/contract"
	"video-annotate/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SharedAnnotationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SharedAnnotationMapper
}

func NewSharedAnnotationRepository(db *gorm.DB) contract.SharedAnnotationRepository {
	return &SharedAnnotationRepositoryImpl{
		db:     db,
		mapper: mapper.NewSharedAnnotationMapper(),
	}
}

func (r *SharedAnnotationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SharedAnnotationRepositoryImpl) Create(ctx context.Context, annotation *entity.SharedAnnotation) error {
	m := r.mapper.ToModel(annotation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*annotation = *r.mapper.ToEntity(m)
	return nil
}

func (r *SharedAnnotationRepositoryImpl) FindByTargetUser(ctx context.Context, user string) ([]*entity.SharedAnnotation, error) {
	var models []*model.SharedAnnotation
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByTargetUser{TargetUser: user},
		specification.OrderBy{Field: "created_at"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SharedAnnotationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	result := query.Delete(&model.SharedAnnotation{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SharedAnnotationRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SharedAnnotation{}).Count(&count).Error
	return count, err
}
