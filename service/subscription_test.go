package service

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/repository"
	"testing"
)

func TestSubscriptionCreate(t *testing.T) {
	w := newWorld(t)
	subs := NewSubscriptionService(repository.NewSubscriptionRepository(w.db))
	ctx := context.Background()

	if _, err := subs.Create(ctx, actorOf(w.customer), &domain.Subscription{UserID: w.other.ID, PackageID: w.pkg.ID}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another user, got %v", err)
	}

	sub, err := subs.Create(ctx, actorOf(w.customer), &domain.Subscription{PackageID: w.pkg.ID, Status: domain.SubscriptionSuspended})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub.UserID != w.customer.ID || sub.Status != domain.SubscriptionActive || sub.StartDate == 0 {
		t.Fatalf("unexpected subscription %+v", sub)
	}

	if _, err := subs.Create(ctx, actorOf(w.customer), &domain.Subscription{PackageID: w.pkg.ID}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for a second active subscription, got %v", err)
	}
	if n := w.count(t, &domain.UserActivity{}, "action = ?", domain.ActivitySubscriptionCreated); n != 1 {
		t.Fatalf("expected one activity, got %d", n)
	}

	if _, err := subs.UpdateStatus(ctx, actorOf(w.customer), sub.ID, domain.SubscriptionCancelled); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customers cannot change status, got %v", err)
	}
	cancelled, err := subs.UpdateStatus(ctx, actorOf(w.admin), sub.ID, domain.SubscriptionCancelled)
	if err != nil || cancelled.Status != domain.SubscriptionCancelled {
		t.Fatalf("cancel: %+v %v", cancelled, err)
	}
	if _, err := subs.UpdateStatus(ctx, actorOf(w.admin), sub.ID, domain.SubscriptionActive); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("cancelled is terminal, got %v", err)
	}

	mine, _ := subs.List(ctx, actorOf(w.other))
	if len(mine) != 0 {
		t.Fatalf("bob should see no subscriptions, got %d", len(mine))
	}
}
