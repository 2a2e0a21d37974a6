package domain

import (
	"context"

	"gorm.io/datatypes"
)

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// OutboxMessage is an out-of-band delivery written in the same transaction as
// the state change that caused it.
type OutboxMessage struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Channel       string            `gorm:"size:10;not null" json:"channel"`
	Template      string            `gorm:"size:50;not null" json:"template"`
	Recipient     string            `gorm:"not null" json:"recipient"`
	Payload       datatypes.JSONMap `json:"payload"`
	Status        string            `gorm:"size:10;not null;default:pending;index:idx_outbox_due,priority:1" json:"status"`
	Attempts      int               `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt int64             `gorm:"not null;index:idx_outbox_due,priority:2" json:"nextAttemptAt"`
	LastError     *string           `gorm:"type:text" json:"lastError,omitempty"`
	CreatedAt     int64             `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     int64             `gorm:"autoUpdateTime" json:"updatedAt"`
}

// SideEffects are rows persisted together with a workflow transition.
type SideEffects struct {
	Notifications []Notification
	Outbox        []OutboxMessage
	Activities    []UserActivity
}

func (fx *SideEffects) Notify(n Notification) {
	fx.Notifications = append(fx.Notifications, n)
}

func (fx *SideEffects) Enqueue(channel, template, recipient string, payload map[string]interface{}) {
	if recipient == "" {
		return
	}
	fx.Outbox = append(fx.Outbox, OutboxMessage{
		Channel:   channel,
		Template:  template,
		Recipient: recipient,
		Payload:   datatypes.JSONMap(payload),
		Status:    OutboxPending,
	})
}

func (fx *SideEffects) Record(userID uint, action string, details map[string]interface{}) {
	fx.Activities = append(fx.Activities, UserActivity{
		UserID:  userID,
		Action:  action,
		Details: datatypes.JSONMap(details),
	})
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msgs ...OutboxMessage) error
	FetchDue(ctx context.Context, now int64, limit int) ([]OutboxMessage, error)
	MarkSent(ctx context.Context, id uint) error
	MarkRetry(ctx context.Context, id uint, attempts int, nextAttemptAt int64, lastErr string) error
	MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error
}

// MessageSender delivers one outbox row on its channel.
type MessageSender interface {
	Send(ctx context.Context, msg OutboxMessage) error
}
