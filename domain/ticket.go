package domain

import "context"

type TicketUpdate struct {
	Subject      *string
	Description  *string
	Priority     *string
	Status       *string
	TechnicianID *uint
	Response     *string
	Attachments  []string
}

type TicketRepository interface {
	CreateTicket(ctx context.Context, t *SupportTicket, fx SideEffects) error
	GetTicketByID(ctx context.Context, id uint) (*SupportTicket, error)
	GetAllTickets(ctx context.Context) ([]SupportTicket, error)
	GetUserTickets(ctx context.Context, userID uint) ([]SupportTicket, error)
	GetTechnicianTickets(ctx context.Context, technicianID uint) ([]SupportTicket, error)
	UpdateTicketDetails(ctx context.Context, id uint, in TicketUpdate) (*SupportTicket, error)
	AssignTechnician(ctx context.Context, id, technicianID uint, now int64, fx SideEffects) (*SupportTicket, *TechnicianJob, error)
	TransitionTicket(ctx context.Context, id uint, to string, fx SideEffects) (*SupportTicket, error)
	RecordResponse(ctx context.Context, id uint, response string, now int64, fx SideEffects) (*SupportTicket, error)
}

type TicketUseCase interface {
	List(ctx context.Context, actor Actor) ([]SupportTicket, error)
	Get(ctx context.Context, actor Actor, id uint) (*SupportTicket, error)
	Create(ctx context.Context, actor Actor, t *SupportTicket) (*SupportTicket, error)
	Update(ctx context.Context, actor Actor, id uint, in TicketUpdate) (*SupportTicket, error)
	Assign(ctx context.Context, actor Actor, id, technicianID uint) (*SupportTicket, *TechnicianJob, error)
}
