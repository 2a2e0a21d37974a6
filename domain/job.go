package domain

import "context"

type JobUpdate struct {
	Status          *string
	Notes           *string
	CompletionProof []string
	ScheduledDate   *int64
}

type JobRepository interface {
	// CreateJob validates the linked installation or ticket inside the insert
	// transaction.
	CreateJob(ctx context.Context, job *TechnicianJob) error
	GetJobByID(ctx context.Context, id uint) (*TechnicianJob, error)
	GetAllJobs(ctx context.Context) ([]TechnicianJob, error)
	GetTechnicianJobs(ctx context.Context, technicianID uint) ([]TechnicianJob, error)
	// UpdateJob applies the patch and, on start/complete, cascades the linked
	// installation or ticket status in the same transaction.
	UpdateJob(ctx context.Context, id uint, in JobUpdate, now int64, fx SideEffects) (*TechnicianJob, error)
}

type JobUseCase interface {
	List(ctx context.Context, actor Actor) ([]TechnicianJob, error)
	Get(ctx context.Context, actor Actor, id uint) (*TechnicianJob, error)
	Create(ctx context.Context, actor Actor, job *TechnicianJob) (*TechnicianJob, error)
	Update(ctx context.Context, actor Actor, id uint, in JobUpdate) (*TechnicianJob, error)
}
