package mapper

import (
	"video-annotate/internal/entity"
	"video-annotate/internal/model"
)

type SharedAnnotationMapper struct{}

func NewSharedAnnotationMapper() *SharedAnnotationMapper {
	return &SharedAnnotationMapper{}
}

func (m *SharedAnnotationMapper) ToEntity(a *model.SharedAnnotation) *entity.SharedAnnotation {
	if a == nil {
		return nil
	}
	return &entity.SharedAnnotation{
		Id:         a.Id,
		Url:        a.Url,
		Content:    a.Content,
		Time:       a.Time,
		TargetUser: a.TargetUser,
		SharedBy:   a.SharedBy,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *SharedAnnotationMapper) ToModel(a *entity.SharedAnnotation) *model.SharedAnnotation {
	if a == nil {
		return nil
	}
	return &model.SharedAnnotation{
		Id:         a.Id,
		Url:        a.Url,
		Content:    a.Content,
		Time:       a.Time,
		TargetUser: a.TargetUser,
		SharedBy:   a.SharedBy,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *SharedAnnotationMapper) ToEntities(models []*model.SharedAnnotation) []*entity.SharedAnnotation {
	entities := make([]*entity.SharedAnnotation, 0, len(models))
	for _, a := range models {
		entities = append(entities, m.ToEntity(a))
	}
	return entities
}
