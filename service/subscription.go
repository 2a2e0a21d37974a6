package service

import (
	"context"
	"sekarnet/domain"
	"time"
)

type subscriptionService struct {
	repo domain.SubscriptionRepository
	now  clock
}

func NewSubscriptionService(repo domain.SubscriptionRepository) domain.SubscriptionUseCase {
	return &subscriptionService{repo: repo, now: time.Now}
}

func (s *subscriptionService) List(ctx context.Context, actor domain.Actor) ([]domain.Subscription, error) {
	if actor.IsAdmin() {
		return s.repo.GetAllSubscriptions(ctx)
	}
	return s.repo.GetUserSubscriptions(ctx, actor.ID)
}

func (s *subscriptionService) Create(ctx context.Context, actor domain.Actor, sub *domain.Subscription) (*domain.Subscription, error) {
	if err := require(actor, domain.ActionSubscriptionCreate); err != nil {
		return nil, err
	}
	owner, err := ownerFor(actor, sub.UserID)
	if err != nil {
		return nil, err
	}
	if sub.PackageID == 0 {
		return nil, invalid("packageId is required")
	}

	sub.ID = 0
	sub.UserID = owner
	sub.EndDate = nil
	if sub.Status == "" || !actor.IsAdmin() {
		sub.Status = domain.SubscriptionActive
	}
	if !domain.SubscriptionFlow.Valid(sub.Status) || sub.Status == domain.SubscriptionCancelled {
		return nil, invalid("new subscriptions must be active or suspended")
	}
	if sub.StartDate == 0 {
		sub.StartDate = s.now.unix()
	}

	var fx domain.SideEffects
	fx.Record(owner, domain.ActivitySubscriptionCreated, map[string]interface{}{"packageId": sub.PackageID})
	if err := s.repo.CreateSubscription(ctx, sub, fx); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) UpdateStatus(ctx context.Context, actor domain.Actor, id uint, status string) (*domain.Subscription, error) {
	if err := require(actor, domain.ActionSubscriptionUpdate); err != nil {
		return nil, err
	}
	return s.repo.TransitionSubscription(ctx, id, status, s.now.unix())
}
