package service

import (
	"context"
	"strings"
	"time"

	"video-annotate/internal/dto"
	"video-annotate/internal/entity"
	"video-annotate/internal/pkg/logger"
	"video-annotate/internal/pkg/serverutils"
	"video-annotate/internal/repository/contract"
	"video-annotate/pkg/events"

	"github.com/google/uuid"
)

type IAnnotationService interface {
	// Matching returns the annotations waiting for userName, oldest first.
	Matching(ctx context.Context, userName string) ([]*dto.MatchingAnnotationResponse, error)
	// Acknowledge deletes a pending annotation. Unknown ids are not an error.
	Acknowledge(ctx context.Context, id string) (*dto.DeleteAnnotationResponse, error)
	Share(ctx context.Context, req *dto.ShareAnnotationRequest) (*dto.ShareAnnotationResponse, error)
	Stats(ctx context.Context) (*dto.AnnotationStatsResponse, error)
}

type annotationService struct {
	repo      contract.SharedAnnotationRepository
	publisher events.Publisher
	logger    logger.ILogger
}

func NewAnnotationService(repo contract.SharedAnnotationRepository, publisher events.Publisher, log logger.ILogger) IAnnotationService {
	return &annotationService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func (s *annotationService) Matching(ctx context.Context, userName string) ([]*dto.MatchingAnnotationResponse, error) {
	pending, err := s.repo.FindByTargetUser(ctx, strings.TrimSpace(userName))
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MatchingAnnotationResponse, 0, len(pending))
	for _, a := range pending {
		res = append(res, &dto.MatchingAnnotationResponse{
			Id:      a.Id.String(),
			Url:     a.Url,
			Content: a.Content,
			Time:    a.Time,
		})
	}
	return res, nil
}

func (s *annotationService) Acknowledge(ctx context.Context, id string) (*dto.DeleteAnnotationResponse, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, serverutils.NewBadRequestError("invalid annotation id")
	}

	deleted, err := s.repo.Delete(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if !deleted {
		s.logger.Debug("AnnotationService", "Acknowledged annotation was already gone", map[string]interface{}{"id": id})
	}
	return &dto.DeleteAnnotationResponse{Id: id, Deleted: deleted}, nil
}

func (s *annotationService) Share(ctx context.Context, req *dto.ShareAnnotationRequest) (*dto.ShareAnnotationResponse, error) {
	target := strings.TrimSpace(req.TargetUser)
	if target == "" {
		return nil, serverutils.NewBadRequestError("target_user is required")
	}

	record := entity.SharedAnnotation{
		Id:         uuid.New(),
		Url:        req.Annotation.Url,
		Content:    req.Annotation.Content,
		Time:       req.Annotation.Time,
		TargetUser: target,
		SharedBy:   strings.TrimSpace(req.SharedBy),
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		evt := events.BaseEvent{
			Type: events.AnnotationShared,
			Data: map[string]interface{}{
				"id":          record.Id.String(),
				"target_user": record.TargetUser,
				"shared_by":   record.SharedBy,
				"url":         record.Url,
			},
			OccurredAt: record.CreatedAt,
		}
		// The record is already stored; the recipient still gets it on its next sync.
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("AnnotationService", "Failed to publish share event", map[string]interface{}{
				"error":       err.Error(),
				"target_user": record.TargetUser,
			})
		}
	}

	s.logger.Info("AnnotationService", "Annotation shared", map[string]interface{}{
		"id":          record.Id.String(),
		"target_user": record.TargetUser,
		"shared_by":   record.SharedBy,
	})
	return &dto.ShareAnnotationResponse{Id: record.Id.String()}, nil
}

func (s *annotationService) Stats(ctx context.Context) (*dto.AnnotationStatsResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AnnotationStatsResponse{Pending: count}, nil
}
