package domain

import "context"

type SubscriptionRepository interface {
	// CreateSubscription fails with ErrConflict when the user already has an
	// active subscription and the new one is active too.
	CreateSubscription(ctx context.Context, sub *Subscription, fx SideEffects) error
	GetSubscriptionByID(ctx context.Context, id uint) (*Subscription, error)
	GetUserSubscriptions(ctx context.Context, userID uint) ([]Subscription, error)
	GetAllSubscriptions(ctx context.Context) ([]Subscription, error)
	TransitionSubscription(ctx context.Context, id uint, to string, now int64) (*Subscription, error)
}

type SubscriptionUseCase interface {
	List(ctx context.Context, actor Actor) ([]Subscription, error)
	Create(ctx context.Context, actor Actor, sub *Subscription) (*Subscription, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, status string) (*Subscription, error)
}
