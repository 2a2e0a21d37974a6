package repository

import (
	"context"
	"sekarnet/domain"
	"time"

	"gorm.io/gorm"
)

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

// Create writes n and fx in one transaction.
func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification, fx domain.SideEffects) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return dbError(err)
		}
		return applySideEffects(tx, fx, time.Now().Unix())
	})
}

func (r *notificationRepo) GetByID(ctx context.Context, id uint) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, notFound(err, "notification")
	}
	return &n, nil
}

// GetForUser returns the user's own rows plus broadcasts aimed at every role
// or at role.
func (r *notificationRepo) GetForUser(ctx context.Context, userID uint, role string) ([]domain.Notification, error) {
	var ns []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR (user_id IS NULL AND (target_role IS NULL OR target_role = ?))", userID, role).
		Order("created_at DESC, id DESC").
		Find(&ns).Error
	if err != nil {
		return nil, dbError(err)
	}
	return ns, nil
}

func (r *notificationRepo) GetAll(ctx context.Context) ([]domain.Notification, error) {
	var ns []domain.Notification
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&ns).Error; err != nil {
		return nil, dbError(err)
	}
	return ns, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uint) (*domain.Notification, error) {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return nil, dbError(res.Error)
	}
	return r.GetByID(ctx, id)
}
