package service

import (
	"context"
	"sekarnet/domain"
	"sekarnet/notifier"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// BroadcastMailer sends one templated email synchronously.
type BroadcastMailer interface {
	SendEmail(ctx context.Context, to, template string, data map[string]interface{}) error
}

type notificationService struct {
	repo     domain.NotificationRepository
	userRepo domain.UserRepository
	mailer   BroadcastMailer
	delay    time.Duration
}

// NewNotificationService takes the pause between broadcast emails; a nil
// mailer counts every email as failed.
func NewNotificationService(repo domain.NotificationRepository, userRepo domain.UserRepository, mailer BroadcastMailer, delay time.Duration) domain.NotificationUseCase {
	return &notificationService{
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
		delay:    delay,
	}
}

func (s *notificationService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	return s.repo.GetForUser(ctx, actor.ID, actor.Role)
}

// Create lets an admin write a single row, addressed to a user or broadcast.
func (s *notificationService) Create(ctx context.Context, actor domain.Actor, n *domain.Notification) (*domain.Notification, error) {
	if err := require(actor, domain.ActionNotificationCreate); err != nil {
		return nil, err
	}
	if err := validateNotification(n.Title, n.Message, n.Type, n.TargetRole); err != nil {
		return nil, err
	}
	n.ID = 0
	n.IsRead = false

	var fx domain.SideEffects
	fx.Enqueue(domain.ChannelPush, "notification", pushTarget(n.UserID, n.TargetRole), map[string]interface{}{
		"type": "notification",
		"data": map[string]interface{}{"title": n.Title, "message": n.Message, "type": n.Type},
	})
	if err := s.repo.Create(ctx, n, fx); err != nil {
		return nil, err
	}
	return n, nil
}

func validateNotification(title, message, typ string, role *string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return invalid("title and message are required")
	}
	if !domain.IsValidNotificationType(typ) {
		return invalid("unknown notification type %q", typ)
	}
	if role != nil && !domain.IsValidRole(*role) {
		return invalid("unknown role %q", *role)
	}
	return nil
}

func pushTarget(userID *uint, role *string) string {
	switch {
	case userID != nil:
		return "user:" + uintString(*userID)
	case role != nil:
		return "role:" + *role
	}
	return "all"
}

// MarkRead accepts the caller's own rows and broadcasts visible to them.
func (s *notificationService) MarkRead(ctx context.Context, actor domain.Actor, id uint) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		switch {
		case n.UserID != nil:
			if *n.UserID != actor.ID {
				return nil, forbidden("notification %d", id)
			}
		case n.TargetRole != nil && *n.TargetRole != actor.Role:
			return nil, forbidden("notification %d", id)
		}
	}
	return s.repo.MarkRead(ctx, id)
}

// Broadcast writes one broadcast row, then emails every matching user in
// turn. Email failures are counted, not returned.
func (s *notificationService) Broadcast(ctx context.Context, actor domain.Actor, in domain.BroadcastInput) (*domain.BroadcastResult, error) {
	if err := require(actor, domain.ActionNotificationBroadcast); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = domain.NotificationAnnouncement
	}
	if err := validateNotification(in.Title, in.Message, in.Type, in.TargetRole); err != nil {
		return nil, err
	}

	n := &domain.Notification{
		TargetRole: in.TargetRole,
		Title:      in.Title,
		Message:    in.Message,
		Type:       in.Type,
	}
	var fx domain.SideEffects
	fx.Enqueue(domain.ChannelPush, "notification", pushTarget(nil, in.TargetRole), map[string]interface{}{
		"type": "broadcast",
		"data": map[string]interface{}{"title": in.Title, "message": in.Message, "type": in.Type},
	})
	if err := s.repo.Create(ctx, n, fx); err != nil {
		return nil, err
	}

	result := &domain.BroadcastResult{Notification: n}
	if !in.SendEmail {
		return result, nil
	}

	role := ""
	if in.TargetRole != nil {
		role = *in.TargetRole
	}
	users, err := s.userRepo.GetAllUsers(ctx, role)
	if err != nil {
		return nil, err
	}

	template := notifier.TemplateCustom
	if in.Type == domain.NotificationMaintenance {
		template = notifier.TemplateMaintenanceNotification
	}

	for i, u := range users {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				result.Failed += len(users) - i
				return result, nil
			case <-time.After(s.delay):
			}
		}
		if ctx.Err() != nil {
			result.Failed += len(users) - i
			return result, nil
		}
		if s.mailer == nil {
			result.Failed++
			continue
		}
		err := s.mailer.SendEmail(ctx, u.Email, template, map[string]interface{}{
			"customerName": u.FullName,
			"title":        in.Title,
			"subject":      in.Title,
			"message":      in.Message,
		})
		if err != nil {
			log.Error().Err(err).Str("to", u.Email).Msg("broadcast email")
			result.Failed++
			continue
		}
		result.Success++
	}
	return result, nil
}
