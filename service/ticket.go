package service

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"sekarnet/notifier"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ticketService struct {
	repo     domain.TicketRepository
	userRepo domain.UserRepository
	now      clock
}

func NewTicketService(repo domain.TicketRepository, userRepo domain.UserRepository) domain.TicketUseCase {
	return &ticketService{repo: repo, userRepo: userRepo, now: time.Now}
}

func (s *ticketService) List(ctx context.Context, actor domain.Actor) ([]domain.SupportTicket, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.repo.GetAllTickets(ctx)
	case domain.RoleTechnician:
		return s.repo.GetTechnicianTickets(ctx, actor.ID)
	default:
		return s.repo.GetUserTickets(ctx, actor.ID)
	}
}

func (s *ticketService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.SupportTicket, error) {
	t, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actor, t.UserID) && !isAssigned(actor, t.TechnicianID) {
		return nil, forbidden("support ticket %d", id)
	}
	return t, nil
}

func (s *ticketService) Create(ctx context.Context, actor domain.Actor, t *domain.SupportTicket) (*domain.SupportTicket, error) {
	if err := require(actor, domain.ActionTicketCreate); err != nil {
		return nil, err
	}
	owner, err := ownerFor(actor, t.UserID)
	if err != nil {
		return nil, err
	}
	t.Subject = strings.TrimSpace(t.Subject)
	if t.Subject == "" || strings.TrimSpace(t.Description) == "" {
		return nil, invalid("subject and description are required")
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if !domain.IsValidPriority(t.Priority) {
		return nil, invalid("unknown priority %q", t.Priority)
	}

	t.ID = 0
	t.UserID = owner
	t.Status = domain.TicketNew
	t.TechnicianID = nil
	t.Response = nil
	t.RespondedAt = nil
	if t.Attachments == nil {
		t.Attachments = datatypes.JSONSlice[string]{}
	}

	var fx domain.SideEffects
	fx.Record(owner, domain.ActivityTicketCreated, map[string]interface{}{
		"subject":  t.Subject,
		"priority": t.Priority,
	})
	notifyRole(&fx, domain.RoleAdmin, "Tiket Support Baru",
		fmt.Sprintf("Tiket baru: %s", t.Subject), domain.NotificationSupport)

	if err := s.repo.CreateTicket(ctx, t, fx); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ticketService) Update(ctx context.Context, actor domain.Actor, id uint, in domain.TicketUpdate) (*domain.SupportTicket, error) {
	t, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleCustomer {
		return s.customerEdit(ctx, t, in)
	}

	if in.Priority != nil && !domain.IsValidPriority(*in.Priority) {
		return nil, invalid("unknown priority %q", *in.Priority)
	}
	if in.Subject != nil || in.Description != nil || in.Priority != nil || in.Attachments != nil {
		if t, err = s.repo.UpdateTicketDetails(ctx, id, in); err != nil {
			return nil, err
		}
	}
	if in.TechnicianID != nil {
		if t, _, err = s.Assign(ctx, actor, id, *in.TechnicianID); err != nil {
			return nil, err
		}
	}
	if in.Response != nil {
		if t, err = s.respond(ctx, actor, t, *in.Response); err != nil {
			return nil, err
		}
	}
	if in.Status != nil && !(in.TechnicianID != nil && *in.Status == domain.TicketInProgress) {
		if err := require(actor, domain.ActionTicketStatus); err != nil {
			return nil, err
		}
		var fx domain.SideEffects
		notifyUser(&fx, t.UserID, "Tiket Support Diperbarui",
			fmt.Sprintf("Status tiket #%d sekarang %s", t.ID, *in.Status), domain.NotificationSupport)
		if t, err = s.repo.TransitionTicket(ctx, id, *in.Status, fx); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// customerEdit allows subject, description and attachments on a new ticket.
func (s *ticketService) customerEdit(ctx context.Context, t *domain.SupportTicket, in domain.TicketUpdate) (*domain.SupportTicket, error) {
	if in.Status != nil || in.Priority != nil || in.TechnicianID != nil || in.Response != nil {
		return nil, forbidden("customers may only edit subject, description and attachments")
	}
	if t.Status != domain.TicketNew {
		return nil, invalid("ticket %d can no longer be edited", t.ID)
	}
	if in.Subject != nil && strings.TrimSpace(*in.Subject) == "" {
		return nil, invalid("subject cannot be empty")
	}
	return s.repo.UpdateTicketDetails(ctx, t.ID, in)
}

func (s *ticketService) respond(ctx context.Context, actor domain.Actor, t *domain.SupportTicket, response string) (*domain.SupportTicket, error) {
	if err := require(actor, domain.ActionTicketRespond); err != nil {
		return nil, err
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, invalid("response cannot be empty")
	}
	owner, err := s.userRepo.GetUserByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}

	var fx domain.SideEffects
	notifyUser(&fx, owner.ID, "Tanggapan Tiket Support",
		fmt.Sprintf("Tiket #%d \"%s\" mendapat tanggapan baru", t.ID, t.Subject), domain.NotificationSupport)
	fx.Enqueue(domain.ChannelEmail, notifier.TemplateSupportTicketUpdate, owner.Email, map[string]interface{}{
		"customerName": owner.FullName,
		"ticketId":     t.ID,
		"subject":      t.Subject,
		"status":       t.Status,
		"update":       response,
	})
	return s.repo.RecordResponse(ctx, t.ID, response, s.now.unix(), fx)
}

func (s *ticketService) Assign(ctx context.Context, actor domain.Actor, id, technicianID uint) (*domain.SupportTicket, *domain.TechnicianJob, error) {
	if err := require(actor, domain.ActionTicketAssign); err != nil {
		return nil, nil, err
	}
	if technicianID == 0 {
		return nil, nil, invalid("technicianId is required")
	}
	t, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tech, err := s.userRepo.GetUserByID(ctx, technicianID)
	if err != nil {
		return nil, nil, err
	}
	if tech.Role != domain.RoleTechnician {
		return nil, nil, invalid("user %d is not a technician", technicianID)
	}

	var fx domain.SideEffects
	notifyUser(&fx, t.UserID, "Tiket Sedang Ditangani",
		fmt.Sprintf("Tiket #%d sedang ditangani oleh %s", t.ID, tech.FullName), domain.NotificationSupport)
	notifyUser(&fx, tech.ID, "Tugas Support Baru",
		fmt.Sprintf("Anda ditugaskan untuk tiket #%d: %s", t.ID, t.Subject), domain.NotificationSupport)

	return s.repo.AssignTechnician(ctx, id, technicianID, s.now.unix(), fx)
}
