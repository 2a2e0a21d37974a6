package jobs

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/notifier"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseBackoff = 30 * time.Second
	maxBackoff         = time.Hour
	sendTimeout        = 30 * time.Second
)

// OutboxDispatcher drains pending outbox rows and retries failures with
// exponential backoff until MaxAttempts, then marks them failed.
type OutboxDispatcher struct {
	repo        domain.OutboxRepository
	sender      domain.MessageSender
	interval    time.Duration
	maxAttempts int
	batchSize   int
	baseBackoff time.Duration
	now         func() time.Time
}

type DispatcherConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	BatchSize    int
	BaseBackoff  time.Duration
}

func NewOutboxDispatcher(repo domain.OutboxRepository, sender domain.MessageSender, cfg DispatcherConfig) *OutboxDispatcher {
	d := &OutboxDispatcher{
		repo:        repo,
		sender:      sender,
		interval:    cfg.PollInterval,
		maxAttempts: cfg.MaxAttempts,
		batchSize:   cfg.BatchSize,
		baseBackoff: cfg.BaseBackoff,
		now:         time.Now,
	}
	if d.interval <= 0 {
		d.interval = 5 * time.Second
	}
	if d.maxAttempts <= 0 {
		d.maxAttempts = 5
	}
	if d.batchSize <= 0 {
		d.batchSize = 20
	}
	if d.baseBackoff <= 0 {
		d.baseBackoff = defaultBaseBackoff
	}
	return d
}

// Run polls until ctx is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	log.Info().Dur("interval", d.interval).Msg("🚀 outbox dispatcher started")
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("outbox dispatch failed")
			}
		case <-ctx.Done():
			log.Info().Msg("🛑 outbox dispatcher stopped")
			return
		}
	}
}

// DispatchOnce sends one batch of due rows and returns how many were sent.
func (d *OutboxDispatcher) DispatchOnce(ctx context.Context) (int, error) {
	msgs, err := d.repo.FetchDue(ctx, d.now().Unix(), d.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range msgs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if d.deliver(ctx, msg) {
			sent++
		}
	}
	return sent, nil
}

func (d *OutboxDispatcher) deliver(ctx context.Context, msg domain.OutboxMessage) bool {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	err := d.sender.Send(sendCtx, msg)
	cancel()

	if err == nil {
		if err := d.repo.MarkSent(ctx, msg.ID); err != nil {
			log.Error().Err(err).Uint("outbox", msg.ID).Msg("mark outbox sent")
		}
		return true
	}

	attempts := msg.Attempts + 1
	logger := log.Warn().Err(err).Uint("outbox", msg.ID).Str("channel", msg.Channel).
		Str("template", msg.Template).Int("attempt", attempts)

	if attempts >= d.maxAttempts || errors.Is(err, notifier.ErrChannelDisabled) {
		logger.Msg("outbox message failed permanently")
		if err := d.repo.MarkFailed(ctx, msg.ID, attempts, err.Error()); err != nil {
			log.Error().Err(err).Uint("outbox", msg.ID).Msg("mark outbox failed")
		}
		return false
	}

	next := d.now().Add(d.Backoff(attempts)).Unix()
	logger.Int64("next_attempt_at", next).Msg("outbox message will be retried")
	if err := d.repo.MarkRetry(ctx, msg.ID, attempts, next, err.Error()); err != nil {
		log.Error().Err(err).Uint("outbox", msg.ID).Msg("mark outbox retry")
	}
	return false
}

// Backoff is base * 2^(attempts-1), capped at an hour.
func (d *OutboxDispatcher) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := d.baseBackoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
