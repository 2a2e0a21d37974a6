package repository

import (
	"context"
	"sekarnet/domain"
	"time"

	"gorm.io/gorm"
)

type outboxRepo struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) domain.OutboxRepository {
	return &outboxRepo{db: db}
}

func (r *outboxRepo) Enqueue(ctx context.Context, msgs ...domain.OutboxMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	now := time.Now().Unix()
	for i := range msgs {
		if msgs[i].Status == "" {
			msgs[i].Status = domain.OutboxPending
		}
		if msgs[i].NextAttemptAt == 0 {
			msgs[i].NextAttemptAt = now
		}
	}
	return dbError(r.db.WithContext(ctx).Create(&msgs).Error)
}

// FetchDue returns pending rows whose next attempt is not in the future,
// oldest first.
func (r *outboxRepo) FetchDue(ctx context.Context, now int64, limit int) ([]domain.OutboxMessage, error) {
	var msgs []domain.OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", domain.OutboxPending, now).
		Order("next_attempt_at ASC, id ASC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, dbError(err)
	}
	return msgs, nil
}

func (r *outboxRepo) MarkSent(ctx context.Context, id uint) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     domain.OutboxSent,
		"last_error": nil,
	})
}

func (r *outboxRepo) MarkRetry(ctx context.Context, id uint, attempts int, nextAttemptAt int64, lastErr string) error {
	return r.update(ctx, id, map[string]interface{}{
		"attempts":        attempts,
		"next_attempt_at": nextAttemptAt,
		"last_error":      lastErr,
	})
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     domain.OutboxFailed,
		"attempts":   attempts,
		"last_error": lastErr,
	})
}

func (r *outboxRepo) update(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.OutboxMessage{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return dbError(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "outbox message")
	}
	return nil
}
