package repository

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type installationRepo struct {
	db *gorm.DB
}

func NewInstallationRepository(db *gorm.DB) domain.InstallationRepository {
	return &installationRepo{db: db}
}

func (r *installationRepo) CreateInstallation(ctx context.Context, req *domain.InstallationRequest, fx domain.SideEffects) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		var pkg domain.Package
		if err := tx.First(&pkg, req.PackageID).Error; err != nil {
			return notFound(err, "package")
		}
		if err := tx.Create(req).Error; err != nil {
			return dbError(err)
		}
		for i := range fx.Activities {
			if fx.Activities[i].Details != nil {
				fx.Activities[i].Details["requestId"] = req.ID
			}
		}
		return applySideEffects(tx, fx, req.CreatedAt)
	})
}

func (r *installationRepo) GetInstallationByID(ctx context.Context, id uint) (*domain.InstallationRequest, error) {
	var req domain.InstallationRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFound(err, "installation request")
	}
	return &req, nil
}

func (r *installationRepo) GetAllInstallations(ctx context.Context) ([]domain.InstallationRequest, error) {
	var reqs []domain.InstallationRequest
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, dbError(err)
	}
	return reqs, nil
}

func (r *installationRepo) GetUserInstallations(ctx context.Context, userID uint) ([]domain.InstallationRequest, error) {
	var reqs []domain.InstallationRequest
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, dbError(err)
	}
	return reqs, nil
}

func (r *installationRepo) GetTechnicianInstallations(ctx context.Context, technicianID uint) ([]domain.InstallationRequest, error) {
	var reqs []domain.InstallationRequest
	if err := r.db.WithContext(ctx).Where("technician_id = ?", technicianID).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, dbError(err)
	}
	return reqs, nil
}

// UpdateInstallationDetails only touches descriptive fields; status and
// technician go through the transition methods.
func (r *installationRepo) UpdateInstallationDetails(ctx context.Context, id uint, in domain.InstallationUpdate) (*domain.InstallationRequest, error) {
	updates := map[string]interface{}{}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.PreferredDate != nil {
		updates["preferred_date"] = *in.PreferredDate
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&domain.InstallationRequest{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, dbError(res.Error)
		}
	}
	return r.GetInstallationByID(ctx, id)
}

func (r *installationRepo) AssignTechnician(ctx context.Context, id, technicianID uint, now int64, fx domain.SideEffects) (*domain.InstallationRequest, *domain.TechnicianJob, error) {
	var (
		req domain.InstallationRequest
		job domain.TechnicianJob
	)
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error; err != nil {
			return notFound(err, "installation request")
		}
		if err := domain.InstallationFlow.Transition(req.Status, domain.InstallationScheduled); err != nil {
			return err
		}
		if _, err := loadTechnician(tx, technicianID); err != nil {
			return err
		}

		if err := tx.Model(&req).Updates(map[string]interface{}{
			"technician_id": technicianID,
			"status":        domain.InstallationScheduled,
			"updated_at":    now,
		}).Error; err != nil {
			return dbError(err)
		}

		// reassignment retires the previous technician's open jobs
		if err := tx.Model(&domain.TechnicianJob{}).
			Where("installation_id = ? AND technician_id <> ? AND status IN ?", req.ID, technicianID,
				[]string{domain.JobScheduled, domain.JobInProgress}).
			Update("status", domain.JobCancelled).Error; err != nil {
			return dbError(err)
		}

		scheduled := req.ScheduleDate(now)
		installationID := req.ID
		job = domain.TechnicianJob{
			TechnicianID:   technicianID,
			InstallationID: &installationID,
			JobType:        domain.JobTypeInstallation,
			Status:         domain.JobScheduled,
			ScheduledDate:  scheduled,
		}
		if err := insertJobOnce(tx, &job, "installation_id = ? AND technician_id = ?", installationID, technicianID); err != nil {
			return err
		}
		return applySideEffects(tx, fx, now)
	})
	if err != nil {
		return nil, nil, err
	}
	updated, err := r.GetInstallationByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, &job, nil
}

// TransitionInstallation applies a plain status change. Cancelling also
// cancels the request's open jobs.
func (r *installationRepo) TransitionInstallation(ctx context.Context, id uint, to string, fx domain.SideEffects) (*domain.InstallationRequest, error) {
	var req domain.InstallationRequest
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error; err != nil {
			return notFound(err, "installation request")
		}
		if to == domain.InstallationScheduled && req.Status == domain.InstallationPending {
			return fmt.Errorf("%w: assign a technician to schedule an installation", domain.ErrValidation)
		}
		if err := domain.InstallationFlow.Transition(req.Status, to); err != nil {
			return err
		}
		if err := tx.Model(&req).Update("status", to).Error; err != nil {
			return dbError(err)
		}
		if to == domain.InstallationCancelled {
			if err := tx.Model(&domain.TechnicianJob{}).
				Where("installation_id = ? AND status IN ?", req.ID, []string{domain.JobScheduled, domain.JobInProgress}).
				Update("status", domain.JobCancelled).Error; err != nil {
				return dbError(err)
			}
		}
		return applySideEffects(tx, fx, time.Now().Unix())
	})
	if err != nil {
		return nil, err
	}
	return r.GetInstallationByID(ctx, id)
}

// insertJobOnce inserts job unless the unique (request, technician) index
// already holds one, in which case job is loaded from the existing row.
func insertJobOnce(tx *gorm.DB, job *domain.TechnicianJob, where string, args ...interface{}) error {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(job)
	if res.Error != nil {
		return dbError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	scheduled := job.ScheduledDate
	if err := tx.Where(where, args...).First(job).Error; err != nil {
		return dbError(err)
	}
	if job.Status == domain.JobCancelled {
		// the same technician was assigned again after a reassignment
		if err := tx.Model(job).Updates(map[string]interface{}{
			"status":         domain.JobScheduled,
			"scheduled_date": scheduled,
		}).Error; err != nil {
			return dbError(err)
		}
		job.Status = domain.JobScheduled
		job.ScheduledDate = scheduled
	}
	return nil
}
