package repository

import (
	"context"
	"errors"
	"fmt"
	"sekarnet/domain"
	"sekarnet/utils"

	"gorm.io/gorm"
)

// dbError keeps the raw error for errors.Is while prefixing a readable message.
func dbError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", utils.TranslateDBError(err), err)
}

// notFound maps gorm's not-found to domain.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return dbError(err)
}

// withTx runs fn in one transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return dbError(tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err = tx.Commit().Error; err != nil {
		return dbError(err)
	}
	return nil
}

// applySideEffects writes notifications, outbox rows and activities inside tx.
func applySideEffects(tx *gorm.DB, fx domain.SideEffects, now int64) error {
	if len(fx.Notifications) > 0 {
		if err := tx.Create(&fx.Notifications).Error; err != nil {
			return dbError(err)
		}
	}
	if len(fx.Outbox) > 0 {
		for i := range fx.Outbox {
			if fx.Outbox[i].NextAttemptAt == 0 {
				fx.Outbox[i].NextAttemptAt = now
			}
		}
		if err := tx.Create(&fx.Outbox).Error; err != nil {
			return dbError(err)
		}
	}
	if len(fx.Activities) > 0 {
		if err := tx.Create(&fx.Activities).Error; err != nil {
			return dbError(err)
		}
	}
	return nil
}

// loadTechnician checks that id refers to a technician account.
func loadTechnician(tx *gorm.DB, id uint) (*domain.User, error) {
	var tech domain.User
	if err := tx.Where("id = ?", id).First(&tech).Error; err != nil {
		return nil, notFound(err, "technician")
	}
	if tech.Role != domain.RoleTechnician {
		return nil, fmt.Errorf("%w: user %d is not a technician", domain.ErrValidation, id)
	}
	return &tech, nil
}
