package service

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/repository"
	"sync"
	"testing"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail map[string]bool
	tmpl []string
	// onSend runs after every successful send
	onSend func()
}

func (m *fakeMailer) SendEmail(_ context.Context, to, template string, _ map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	m.tmpl = append(m.tmpl, template)
	if m.onSend != nil {
		m.onSend()
	}
	return nil
}

func TestBroadcastCounts(t *testing.T) {
	w := newWorld(t)
	mailer := &fakeMailer{fail: map[string]bool{"bob@sekar.net": true}}
	svc := NewNotificationService(repository.NewNotificationRepository(w.db), w.users(), mailer, 0)
	ctx := context.Background()
	customers := domain.RoleCustomer

	if _, err := svc.Broadcast(ctx, actorOf(w.customer), domain.BroadcastInput{Title: "t", Message: "m"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	res, err := svc.Broadcast(ctx, actorOf(w.admin), domain.BroadcastInput{
		Title:      "Pemeliharaan Jaringan",
		Message:    "Gangguan singkat pukul 01.00",
		Type:       domain.NotificationMaintenance,
		TargetRole: &customers,
		SendEmail:  true,
	})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if res.Success != 1 || res.Failed != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %+v", res)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "alice@sekar.net" || mailer.tmpl[0] != "maintenanceNotification" {
		t.Fatalf("unexpected sends %v %v", mailer.sent, mailer.tmpl)
	}
	if res.Notification == nil || res.Notification.UserID != nil {
		t.Fatalf("expected a broadcast row, got %+v", res.Notification)
	}
	if n := w.count(t, &domain.OutboxMessage{}, "channel = ? AND recipient = ?", domain.ChannelPush, "role:customer"); n != 1 {
		t.Fatalf("expected one role push, got %d", n)
	}

	visible, _ := svc.ListMine(ctx, actorOf(w.customer))
	if len(visible) != 1 {
		t.Fatalf("customer should see the broadcast, got %d", len(visible))
	}
	hidden, _ := svc.ListMine(ctx, actorOf(w.tech))
	if len(hidden) != 0 {
		t.Fatalf("technician should not see a customer broadcast, got %d", len(hidden))
	}
	if _, err := svc.MarkRead(ctx, actorOf(w.tech), res.Notification.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if read, err := svc.MarkRead(ctx, actorOf(w.customer), res.Notification.ID); err != nil || !read.IsRead {
		t.Fatalf("mark read: %+v %v", read, err)
	}
}

func TestBroadcastWithoutMailer(t *testing.T) {
	w := newWorld(t)
	svc := NewNotificationService(repository.NewNotificationRepository(w.db), w.users(), nil, 0)

	res, err := svc.Broadcast(context.Background(), actorOf(w.admin), domain.BroadcastInput{Title: "Info", Message: "Halo", SendEmail: true})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if res.Success != 0 || res.Failed != 4 {
		t.Fatalf("expected every send to fail, got %+v", res)
	}
	if res.Notification.Type != domain.NotificationAnnouncement {
		t.Fatalf("expected announcement default, got %s", res.Notification.Type)
	}
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	w := newWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mailer := &fakeMailer{onSend: cancel}
	svc := NewNotificationService(repository.NewNotificationRepository(w.db), w.users(), mailer, 0)

	res, err := svc.Broadcast(ctx, actorOf(w.admin), domain.BroadcastInput{Title: "Info", Message: "Halo", SendEmail: true})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if res.Success != 1 || res.Failed != 3 {
		t.Fatalf("expected the remaining sends counted as failed, got %+v", res)
	}
}

func TestCreateNotificationValidation(t *testing.T) {
	w := newWorld(t)
	svc := NewNotificationService(repository.NewNotificationRepository(w.db), w.users(), nil, 0)

	if _, err := svc.Create(context.Background(), actorOf(w.admin), &domain.Notification{Title: "x", Message: "y", Type: "spam"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	n, err := svc.Create(context.Background(), actorOf(w.admin), &domain.Notification{UserID: &w.customer.ID, Title: "x", Message: "y", Type: domain.NotificationSupport})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.ID == 0 {
		t.Fatalf("expected an id")
	}
}
