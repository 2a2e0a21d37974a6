package jobs

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/notifier"
	"sekarnet/repository"
	"sekarnet/testutil"
	"testing"
	"time"
)

type flakySender struct {
	failures int
	err      error
	calls    int
}

func (s *flakySender) Send(context.Context, domain.OutboxMessage) error {
	s.calls++
	if s.calls <= s.failures {
		return s.err
	}
	return nil
}

func TestDispatcherRetriesThenSends(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewOutboxRepository(db)
	ctx := context.Background()
	start := time.Unix(1_700_000_000, 0)

	if err := repo.Enqueue(ctx, domain.OutboxMessage{Channel: domain.ChannelEmail, Template: "welcome", Recipient: "a@b.c", NextAttemptAt: start.Unix()}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	sender := &flakySender{failures: 1, err: errors.New("smtp down")}
	d := NewOutboxDispatcher(repo, sender, DispatcherConfig{MaxAttempts: 3, BaseBackoff: time.Minute})
	d.now = func() time.Time { return start }

	sent, err := d.DispatchOnce(ctx)
	if err != nil || sent != 0 {
		t.Fatalf("first pass: sent=%d err=%v", sent, err)
	}
	var row domain.OutboxMessage
	db.First(&row)
	if row.Status != domain.OutboxPending || row.Attempts != 1 || row.NextAttemptAt != start.Add(time.Minute).Unix() {
		t.Fatalf("unexpected row after failure %+v", row)
	}

	// not due yet
	if sent, _ := d.DispatchOnce(ctx); sent != 0 || sender.calls != 1 {
		t.Fatalf("row retried early: sent=%d calls=%d", sent, sender.calls)
	}

	d.now = func() time.Time { return start.Add(time.Minute) }
	if sent, err := d.DispatchOnce(ctx); err != nil || sent != 1 {
		t.Fatalf("second pass: sent=%d err=%v", sent, err)
	}
	db.First(&row)
	if row.Status != domain.OutboxSent {
		t.Fatalf("expected sent, got %s", row.Status)
	}
}

func TestDispatcherGivesUp(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewOutboxRepository(db)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	if err := repo.Enqueue(ctx, domain.OutboxMessage{Channel: domain.ChannelSMS, Template: "paymentReminder", Recipient: "+62811", NextAttemptAt: now.Unix()}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	sender := &flakySender{failures: 10, err: errors.New("twilio 500")}
	d := NewOutboxDispatcher(repo, sender, DispatcherConfig{MaxAttempts: 2, BaseBackoff: time.Second})
	d.now = func() time.Time { return now }

	d.DispatchOnce(ctx)
	d.now = func() time.Time { return now.Add(time.Hour) }
	d.DispatchOnce(ctx)

	var row domain.OutboxMessage
	db.First(&row)
	if row.Status != domain.OutboxFailed || row.Attempts != 2 || row.LastError == nil || *row.LastError != "twilio 500" {
		t.Fatalf("expected failed after 2 attempts, got %+v", row)
	}
	if sent, _ := d.DispatchOnce(ctx); sent != 0 || sender.calls != 2 {
		t.Fatalf("failed rows must not be retried: calls=%d", sender.calls)
	}
}

func TestDispatcherDisabledChannelFailsImmediately(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewOutboxRepository(db)
	ctx := context.Background()

	if err := repo.Enqueue(ctx, domain.OutboxMessage{Channel: domain.ChannelSMS, Template: "paymentReminder", Recipient: "+62811"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d := NewOutboxDispatcher(repo, notifier.New(nil, nil, nil), DispatcherConfig{MaxAttempts: 5})
	d.DispatchOnce(ctx)

	var row domain.OutboxMessage
	db.First(&row)
	if row.Status != domain.OutboxFailed || row.Attempts != 1 {
		t.Fatalf("expected failed on first attempt, got %+v", row)
	}
}

func TestBackoff(t *testing.T) {
	d := NewOutboxDispatcher(nil, nil, DispatcherConfig{BaseBackoff: 30 * time.Second})
	cases := map[int]time.Duration{
		0:  30 * time.Second,
		1:  30 * time.Second,
		2:  time.Minute,
		3:  2 * time.Minute,
		10: time.Hour,
	}
	for attempts, want := range cases {
		if got := d.Backoff(attempts); got != want {
			t.Fatalf("Backoff(%d) = %s, want %s", attempts, got, want)
		}
	}
}
