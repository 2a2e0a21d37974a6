package repository

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/testutil"
	"testing"
	"time"
)

func TestSingleActiveSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewSubscriptionRepository(f.db)
	now := time.Now().Unix()

	first := &domain.Subscription{UserID: f.customer.ID, PackageID: f.pkg.ID, Status: domain.SubscriptionActive, StartDate: now}
	if err := repo.CreateSubscription(ctx, first, domain.SideEffects{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Package == nil || first.Package.Name != f.pkg.Name {
		t.Fatalf("package not attached: %+v", first.Package)
	}

	second := &domain.Subscription{UserID: f.customer.ID, PackageID: f.pkg.ID, Status: domain.SubscriptionActive, StartDate: now}
	if err := repo.CreateSubscription(ctx, second, domain.SideEffects{}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	suspended := &domain.Subscription{UserID: f.customer.ID, PackageID: f.pkg.ID, Status: domain.SubscriptionSuspended, StartDate: now}
	if err := repo.CreateSubscription(ctx, suspended, domain.SideEffects{}); err != nil {
		t.Fatalf("suspended subscription should be allowed: %v", err)
	}
	if _, err := repo.TransitionSubscription(ctx, suspended.ID, domain.SubscriptionActive, now); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("reactivation should conflict, got %v", err)
	}

	cancelled, err := repo.TransitionSubscription(ctx, first.ID, domain.SubscriptionCancelled, now)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.EndDate == nil || *cancelled.EndDate != now {
		t.Fatalf("end date not stamped: %+v", cancelled.EndDate)
	}
	if _, err := repo.TransitionSubscription(ctx, suspended.ID, domain.SubscriptionActive, now); err != nil {
		t.Fatalf("reactivate after cancel: %v", err)
	}
}

func TestSubscriptionUnknownPackage(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.SeedUser(t, db, "alice", domain.RoleCustomer)

	sub := &domain.Subscription{UserID: alice.ID, PackageID: 42, Status: domain.SubscriptionActive, StartDate: time.Now().Unix()}
	if err := NewSubscriptionRepository(db).CreateSubscription(context.Background(), sub, domain.SideEffects{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
