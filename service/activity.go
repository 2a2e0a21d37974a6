package service

import (
	"context"
	"sekarnet/domain"
)

type activityService struct {
	activityRepo domain.ActivityRepository
	statRepo     domain.ConnectionStatRepository
}

func NewActivityService(activityRepo domain.ActivityRepository, statRepo domain.ConnectionStatRepository) domain.ActivityUseCase {
	return &activityService{activityRepo: activityRepo, statRepo: statRepo}
}

func (s *activityService) ListActivities(ctx context.Context, actor domain.Actor) ([]domain.UserActivity, error) {
	if err := require(actor, domain.ActionActivityView); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return s.activityRepo.GetAllActivities(ctx)
	}
	return s.activityRepo.GetUserActivities(ctx, actor.ID)
}

func (s *activityService) ListStats(ctx context.Context, actor domain.Actor) ([]domain.ConnectionStat, error) {
	if actor.IsAdmin() {
		return s.statRepo.GetAllStats(ctx)
	}
	return s.statRepo.GetUserStats(ctx, actor.ID)
}

func (s *activityService) RecordStat(ctx context.Context, actor domain.Actor, stat *domain.ConnectionStat) (*domain.ConnectionStat, error) {
	if err := require(actor, domain.ActionStatCreate); err != nil {
		return nil, err
	}
	owner, err := ownerFor(actor, stat.UserID)
	if err != nil {
		return nil, err
	}
	if stat.DownloadSpeed < 0 || stat.UploadSpeed < 0 || (stat.Ping != nil && *stat.Ping < 0) {
		return nil, invalid("measurements must not be negative")
	}
	stat.ID = 0
	stat.UserID = owner
	stat.RecordedAt = 0
	if err := s.statRepo.CreateStat(ctx, stat); err != nil {
		return nil, err
	}
	return stat, nil
}
