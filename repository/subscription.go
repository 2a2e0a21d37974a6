package repository

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) domain.SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) CreateSubscription(ctx context.Context, sub *domain.Subscription, fx domain.SideEffects) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		// serialize concurrent creates for the same user
		var owner domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&owner, sub.UserID).Error; err != nil {
			return notFound(err, "user")
		}
		var pkg domain.Package
		if err := tx.First(&pkg, sub.PackageID).Error; err != nil {
			return notFound(err, "package")
		}

		if sub.Status == domain.SubscriptionActive {
			var active int64
			if err := tx.Model(&domain.Subscription{}).
				Where("user_id = ? AND status = ?", sub.UserID, domain.SubscriptionActive).
				Count(&active).Error; err != nil {
				return dbError(err)
			}
			if active > 0 {
				return fmt.Errorf("%w: user already has an active subscription", domain.ErrConflict)
			}
		}

		if err := tx.Create(sub).Error; err != nil {
			return dbError(err)
		}
		sub.Package = &pkg
		return applySideEffects(tx, fx, time.Now().Unix())
	})
}

func (r *subscriptionRepo) GetSubscriptionByID(ctx context.Context, id uint) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := r.db.WithContext(ctx).Preload("Package").First(&sub, id).Error; err != nil {
		return nil, notFound(err, "subscription")
	}
	return &sub, nil
}

func (r *subscriptionRepo) GetUserSubscriptions(ctx context.Context, userID uint) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	if err := r.db.WithContext(ctx).Preload("Package").
		Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, dbError(err)
	}
	return subs, nil
}

func (r *subscriptionRepo) GetAllSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	if err := r.db.WithContext(ctx).Preload("Package").Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, dbError(err)
	}
	return subs, nil
}

// TransitionSubscription moves the status along SubscriptionFlow. Reactivating
// checks the single-active rule again; cancelling stamps the end date.
func (r *subscriptionRepo) TransitionSubscription(ctx context.Context, id uint, to string, now int64) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sub, id).Error; err != nil {
			return notFound(err, "subscription")
		}
		if err := domain.SubscriptionFlow.Transition(sub.Status, to); err != nil {
			return err
		}
		if to == domain.SubscriptionActive {
			var active int64
			if err := tx.Model(&domain.Subscription{}).
				Where("user_id = ? AND status = ? AND id <> ?", sub.UserID, domain.SubscriptionActive, sub.ID).
				Count(&active).Error; err != nil {
				return dbError(err)
			}
			if active > 0 {
				return fmt.Errorf("%w: user already has an active subscription", domain.ErrConflict)
			}
		}

		updates := map[string]interface{}{"status": to}
		if to == domain.SubscriptionCancelled {
			updates["end_date"] = now
		}
		if err := tx.Model(&sub).Updates(updates).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetSubscriptionByID(ctx, id)
}
