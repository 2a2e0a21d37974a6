package repository

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) domain.JobRepository {
	return &jobRepo{db: db}
}

// CreateJob inserts an admin-created job. The linked request must exist and a
// second job for the same (request, technician) pair is ErrConflict. A pending
// installation becomes scheduled and a new ticket in progress, so the job
// completion cascade can reach them.
func (r *jobRepo) CreateJob(ctx context.Context, job *domain.TechnicianJob) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if _, err := loadTechnician(tx, job.TechnicianID); err != nil {
			return err
		}

		switch {
		case job.InstallationID != nil:
			var req domain.InstallationRequest
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, *job.InstallationID).Error; err != nil {
				return notFound(err, "installation request")
			}
			updates := map[string]interface{}{}
			if req.TechnicianID == nil {
				updates["technician_id"] = job.TechnicianID
			}
			// a job on a pending request schedules it, as assign does
			if req.Status == domain.InstallationPending {
				updates["status"] = domain.InstallationScheduled
				updates["updated_at"] = time.Now().Unix()
			}
			if len(updates) > 0 {
				if err := tx.Model(&req).Updates(updates).Error; err != nil {
					return dbError(err)
				}
			}
		case job.TicketID != nil:
			var t domain.SupportTicket
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, *job.TicketID).Error; err != nil {
				return notFound(err, "support ticket")
			}
			updates := map[string]interface{}{}
			if t.TechnicianID == nil {
				updates["technician_id"] = job.TechnicianID
			}
			if t.Status == domain.TicketNew {
				updates["status"] = domain.TicketInProgress
				updates["updated_at"] = time.Now().Unix()
			}
			if len(updates) > 0 {
				if err := tx.Model(&t).Updates(updates).Error; err != nil {
					return dbError(err)
				}
			}
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(job)
		if res.Error != nil {
			return dbError(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: technician already has a job for this request", domain.ErrConflict)
		}
		return nil
	})
}

func (r *jobRepo) GetJobByID(ctx context.Context, id uint) (*domain.TechnicianJob, error) {
	var job domain.TechnicianJob
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, notFound(err, "technician job")
	}
	return &job, nil
}

func (r *jobRepo) GetAllJobs(ctx context.Context) ([]domain.TechnicianJob, error) {
	var jobs []domain.TechnicianJob
	if err := r.db.WithContext(ctx).Order("scheduled_date ASC").Find(&jobs).Error; err != nil {
		return nil, dbError(err)
	}
	return jobs, nil
}

func (r *jobRepo) GetTechnicianJobs(ctx context.Context, technicianID uint) ([]domain.TechnicianJob, error) {
	var jobs []domain.TechnicianJob
	if err := r.db.WithContext(ctx).Where("technician_id = ?", technicianID).Order("scheduled_date ASC").Find(&jobs).Error; err != nil {
		return nil, dbError(err)
	}
	return jobs, nil
}

func (r *jobRepo) UpdateJob(ctx context.Context, id uint, in domain.JobUpdate, now int64, fx domain.SideEffects) (*domain.TechnicianJob, error) {
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		var job domain.TechnicianJob
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, id).Error; err != nil {
			return notFound(err, "technician job")
		}

		updates := map[string]interface{}{}
		if in.Notes != nil {
			updates["notes"] = *in.Notes
		}
		if in.CompletionProof != nil {
			updates["completion_proof"] = datatypes.NewJSONSlice(in.CompletionProof)
		}
		if in.ScheduledDate != nil {
			updates["scheduled_date"] = *in.ScheduledDate
		}

		if in.Status != nil && *in.Status != job.Status {
			to := *in.Status
			if err := domain.JobFlow.Transition(job.Status, to); err != nil {
				return err
			}
			updates["status"] = to
			if to == domain.JobCompleted {
				updates["completion_date"] = now
			}
			if err := cascadeJobStatus(tx, &job, to, now); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&job).Updates(updates).Error; err != nil {
				return dbError(err)
			}
		}
		return applySideEffects(tx, fx, now)
	})
	if err != nil {
		return nil, err
	}
	return r.GetJobByID(ctx, id)
}

// cascadeJobStatus moves the linked request along with the job: start puts a
// scheduled installation in progress, completion completes the installation
// or resolves the ticket. Links already past the target state are left alone.
func cascadeJobStatus(tx *gorm.DB, job *domain.TechnicianJob, to string, now int64) error {
	switch {
	case job.InstallationID != nil:
		var target string
		switch to {
		case domain.JobInProgress:
			target = domain.InstallationInProgress
		case domain.JobCompleted:
			target = domain.InstallationCompleted
		default:
			return nil
		}
		var req domain.InstallationRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, *job.InstallationID).Error; err != nil {
			return notFound(err, "installation request")
		}
		if target == domain.InstallationCompleted && req.Status == domain.InstallationScheduled {
			// a request still marked scheduled completes as well
			req.Status = domain.InstallationInProgress
		}
		if !domain.InstallationFlow.Can(req.Status, target) {
			return nil
		}
		return dbError(tx.Model(&domain.InstallationRequest{}).Where("id = ?", req.ID).
			Updates(map[string]interface{}{"status": target, "updated_at": now}).Error)

	case job.TicketID != nil:
		if to != domain.JobCompleted {
			return nil
		}
		var t domain.SupportTicket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, *job.TicketID).Error; err != nil {
			return notFound(err, "support ticket")
		}
		if !domain.TicketFlow.Can(t.Status, domain.TicketResolved) {
			return nil
		}
		return dbError(tx.Model(&domain.SupportTicket{}).Where("id = ?", t.ID).
			Updates(map[string]interface{}{"status": domain.TicketResolved, "updated_at": now}).Error)
	}
	return nil
}

