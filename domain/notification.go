package domain

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification, fx SideEffects) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
	GetForUser(ctx context.Context, userID uint, role string) ([]Notification, error)
	GetAll(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id uint) (*Notification, error)
}

type BroadcastInput struct {
	Title      string
	Message    string
	Type       string
	TargetRole *string
	SendEmail  bool
}

type BroadcastResult struct {
	Notification *Notification `json:"notification"`
	Success      int           `json:"success"`
	Failed       int           `json:"failed"`
}

type NotificationUseCase interface {
	ListMine(ctx context.Context, actor Actor) ([]Notification, error)
	Create(ctx context.Context, actor Actor, n *Notification) (*Notification, error)
	MarkRead(ctx context.Context, actor Actor, id uint) (*Notification, error)
	Broadcast(ctx context.Context, actor Actor, in BroadcastInput) (*BroadcastResult, error)
}
