package repository

import (
	"context"
	"sekarnet/domain"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ticketRepo struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) domain.TicketRepository {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) CreateTicket(ctx context.Context, t *domain.SupportTicket, fx domain.SideEffects) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return dbError(err)
		}
		for i := range fx.Activities {
			if fx.Activities[i].Details != nil {
				fx.Activities[i].Details["ticketId"] = t.ID
			}
		}
		return applySideEffects(tx, fx, time.Now().Unix())
	})
}

func (r *ticketRepo) GetTicketByID(ctx context.Context, id uint) (*domain.SupportTicket, error) {
	var t domain.SupportTicket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "support ticket")
	}
	return &t, nil
}

func (r *ticketRepo) GetAllTickets(ctx context.Context) ([]domain.SupportTicket, error) {
	var ts []domain.SupportTicket
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ts).Error; err != nil {
		return nil, dbError(err)
	}
	return ts, nil
}

func (r *ticketRepo) GetUserTickets(ctx context.Context, userID uint) ([]domain.SupportTicket, error) {
	var ts []domain.SupportTicket
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&ts).Error; err != nil {
		return nil, dbError(err)
	}
	return ts, nil
}

func (r *ticketRepo) GetTechnicianTickets(ctx context.Context, technicianID uint) ([]domain.SupportTicket, error) {
	var ts []domain.SupportTicket
	if err := r.db.WithContext(ctx).Where("technician_id = ?", technicianID).Order("created_at DESC").Find(&ts).Error; err != nil {
		return nil, dbError(err)
	}
	return ts, nil
}

// UpdateTicketDetails writes subject, description, priority and attachments.
func (r *ticketRepo) UpdateTicketDetails(ctx context.Context, id uint, in domain.TicketUpdate) (*domain.SupportTicket, error) {
	updates := map[string]interface{}{}
	if in.Subject != nil {
		updates["subject"] = *in.Subject
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if in.Attachments != nil {
		updates["attachments"] = datatypes.NewJSONSlice(in.Attachments)
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&domain.SupportTicket{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, dbError(err)
		}
	}
	return r.GetTicketByID(ctx, id)
}

func (r *ticketRepo) AssignTechnician(ctx context.Context, id, technicianID uint, now int64, fx domain.SideEffects) (*domain.SupportTicket, *domain.TechnicianJob, error) {
	var (
		t   domain.SupportTicket
		job domain.TechnicianJob
	)
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error; err != nil {
			return notFound(err, "support ticket")
		}
		if err := domain.TicketFlow.Transition(t.Status, domain.TicketInProgress); err != nil {
			return err
		}
		if _, err := loadTechnician(tx, technicianID); err != nil {
			return err
		}

		if err := tx.Model(&t).Updates(map[string]interface{}{
			"technician_id": technicianID,
			"status":        domain.TicketInProgress,
			"updated_at":    now,
		}).Error; err != nil {
			return dbError(err)
		}

		if err := tx.Model(&domain.TechnicianJob{}).
			Where("ticket_id = ? AND technician_id <> ? AND status IN ?", t.ID, technicianID,
				[]string{domain.JobScheduled, domain.JobInProgress}).
			Update("status", domain.JobCancelled).Error; err != nil {
			return dbError(err)
		}

		ticketID := t.ID
		job = domain.TechnicianJob{
			TechnicianID:  technicianID,
			TicketID:      &ticketID,
			JobType:       domain.JobTypeSupport,
			Status:        domain.JobScheduled,
			ScheduledDate: now,
		}
		if err := insertJobOnce(tx, &job, "ticket_id = ? AND technician_id = ?", ticketID, technicianID); err != nil {
			return err
		}
		return applySideEffects(tx, fx, now)
	})
	if err != nil {
		return nil, nil, err
	}
	updated, err := r.GetTicketByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, &job, nil
}

func (r *ticketRepo) TransitionTicket(ctx context.Context, id uint, to string, fx domain.SideEffects) (*domain.SupportTicket, error) {
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		var t domain.SupportTicket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error; err != nil {
			return notFound(err, "support ticket")
		}
		if err := domain.TicketFlow.Transition(t.Status, to); err != nil {
			return err
		}
		if err := tx.Model(&t).Update("status", to).Error; err != nil {
			return dbError(err)
		}
		return applySideEffects(tx, fx, time.Now().Unix())
	})
	if err != nil {
		return nil, err
	}
	return r.GetTicketByID(ctx, id)
}

// RecordResponse stores the staff answer without touching status.
func (r *ticketRepo) RecordResponse(ctx context.Context, id uint, response string, now int64, fx domain.SideEffects) (*domain.SupportTicket, error) {
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&domain.SupportTicket{}).Where("id = ?", id).Updates(map[string]interface{}{
			"response":     response,
			"responded_at": now,
		})
		if res.Error != nil {
			return dbError(res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "support ticket")
		}
		return applySideEffects(tx, fx, now)
	})
	if err != nil {
		return nil, err
	}
	return r.GetTicketByID(ctx, id)
}
