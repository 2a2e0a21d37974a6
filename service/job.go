package service

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"time"

	"gorm.io/datatypes"
)

type jobService struct {
	repo             domain.JobRepository
	installationRepo domain.InstallationRepository
	ticketRepo       domain.TicketRepository
	now              clock
}

func NewJobService(repo domain.JobRepository, installationRepo domain.InstallationRepository, ticketRepo domain.TicketRepository) domain.JobUseCase {
	return &jobService{
		repo:             repo,
		installationRepo: installationRepo,
		ticketRepo:       ticketRepo,
		now:              time.Now,
	}
}

func (s *jobService) List(ctx context.Context, actor domain.Actor) ([]domain.TechnicianJob, error) {
	if err := require(actor, domain.ActionJobView); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return s.repo.GetAllJobs(ctx)
	}
	return s.repo.GetTechnicianJobs(ctx, actor.ID)
}

func (s *jobService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.TechnicianJob, error) {
	if err := require(actor, domain.ActionJobView); err != nil {
		return nil, err
	}
	job, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actor, job.TechnicianID) {
		return nil, forbidden("technician job %d", id)
	}
	return job, nil
}

// Create is the admin path for jobs outside the assign flow. The job must
// link exactly one installation or ticket matching its type.
func (s *jobService) Create(ctx context.Context, actor domain.Actor, job *domain.TechnicianJob) (*domain.TechnicianJob, error) {
	if err := require(actor, domain.ActionJobCreate); err != nil {
		return nil, err
	}
	if job.TechnicianID == 0 {
		return nil, invalid("technicianId is required")
	}
	if !domain.IsValidJobType(job.JobType) {
		return nil, invalid("unknown jobType %q", job.JobType)
	}
	if (job.InstallationID == nil) == (job.TicketID == nil) {
		return nil, invalid("exactly one of installationId or ticketId is required")
	}
	switch job.JobType {
	case domain.JobTypeInstallation:
		if job.InstallationID == nil {
			return nil, invalid("installation jobs need installationId")
		}
	case domain.JobTypeSupport:
		if job.TicketID == nil {
			return nil, invalid("support jobs need ticketId")
		}
	}

	job.ID = 0
	job.Status = domain.JobScheduled
	job.CompletionDate = nil
	if job.ScheduledDate == 0 {
		job.ScheduledDate = s.now.unix()
	}
	if job.CompletionProof == nil {
		job.CompletionProof = datatypes.JSONSlice[string]{}
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, actor domain.Actor, id uint, in domain.JobUpdate) (*domain.TechnicianJob, error) {
	if err := require(actor, domain.ActionJobUpdate); err != nil {
		return nil, err
	}
	job, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actor, job.TechnicianID) {
		return nil, forbidden("technician job %d is not assigned to you", id)
	}
	if in.ScheduledDate != nil && !actor.IsAdmin() {
		return nil, forbidden("only admins can reschedule jobs")
	}

	var fx domain.SideEffects
	if in.Status != nil && *in.Status != job.Status {
		if owner, label := s.linkedOwner(ctx, job); owner != 0 {
			switch *in.Status {
			case domain.JobInProgress:
				notifyUser(&fx, owner, "Teknisi Dalam Perjalanan",
					fmt.Sprintf("Pekerjaan untuk %s sedang dikerjakan", label), jobNotificationType(job))
			case domain.JobCompleted:
				notifyUser(&fx, owner, "Pekerjaan Selesai",
					fmt.Sprintf("Pekerjaan untuk %s telah selesai", label), jobNotificationType(job))
			}
		}
	}
	return s.repo.UpdateJob(ctx, id, in, s.now.unix(), fx)
}

func (s *jobService) linkedOwner(ctx context.Context, job *domain.TechnicianJob) (uint, string) {
	switch {
	case job.InstallationID != nil:
		if req, err := s.installationRepo.GetInstallationByID(ctx, *job.InstallationID); err == nil {
			return req.UserID, fmt.Sprintf("instalasi #%d", req.ID)
		}
	case job.TicketID != nil:
		if t, err := s.ticketRepo.GetTicketByID(ctx, *job.TicketID); err == nil {
			return t.UserID, fmt.Sprintf("tiket #%d", t.ID)
		}
	}
	return 0, ""
}

func jobNotificationType(job *domain.TechnicianJob) string {
	if job.TicketID != nil {
		return domain.NotificationSupport
	}
	return domain.NotificationInstallation
}
