package repository

import (
	"context"
	"sekarnet/domain"

	"gorm.io/gorm"
)

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) domain.ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) CreateActivity(ctx context.Context, a *domain.UserActivity) error {
	return dbError(r.db.WithContext(ctx).Create(a).Error)
}

func (r *activityRepo) GetUserActivities(ctx context.Context, userID uint) ([]domain.UserActivity, error) {
	var out []domain.UserActivity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

func (r *activityRepo) GetAllActivities(ctx context.Context) ([]domain.UserActivity, error) {
	var out []domain.UserActivity
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

type statRepo struct {
	db *gorm.DB
}

func NewConnectionStatRepository(db *gorm.DB) domain.ConnectionStatRepository {
	return &statRepo{db: db}
}

func (r *statRepo) CreateStat(ctx context.Context, s *domain.ConnectionStat) error {
	return dbError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *statRepo) GetUserStats(ctx context.Context, userID uint) ([]domain.ConnectionStat, error) {
	var out []domain.ConnectionStat
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("recorded_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

func (r *statRepo) GetAllStats(ctx context.Context) ([]domain.ConnectionStat, error) {
	var out []domain.ConnectionStat
	if err := r.db.WithContext(ctx).Order("recorded_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}
