package domain

import "context"

// InstallationUpdate is a PATCH body. A non-nil TechnicianID routes to the
// assign transition, a non-nil Status to a plain status transition.
type InstallationUpdate struct {
	Status        *string
	TechnicianID  *uint
	Address       *string
	Notes         *string
	PreferredDate *int64
}

// ScheduleDate is the preferred date when one is set, now otherwise.
func (r InstallationRequest) ScheduleDate(now int64) int64 {
	if r.PreferredDate != nil && *r.PreferredDate > 0 {
		return *r.PreferredDate
	}
	return now
}

type InstallationRepository interface {
	CreateInstallation(ctx context.Context, req *InstallationRequest, fx SideEffects) error
	GetInstallationByID(ctx context.Context, id uint) (*InstallationRequest, error)
	GetAllInstallations(ctx context.Context) ([]InstallationRequest, error)
	GetUserInstallations(ctx context.Context, userID uint) ([]InstallationRequest, error)
	GetTechnicianInstallations(ctx context.Context, technicianID uint) ([]InstallationRequest, error)
	UpdateInstallationDetails(ctx context.Context, id uint, in InstallationUpdate) (*InstallationRequest, error)
	// AssignTechnician sets the technician, moves the request to scheduled and
	// creates the installation job unless one already links the pair.
	AssignTechnician(ctx context.Context, id, technicianID uint, now int64, fx SideEffects) (*InstallationRequest, *TechnicianJob, error)
	TransitionInstallation(ctx context.Context, id uint, to string, fx SideEffects) (*InstallationRequest, error)
}

type InstallationUseCase interface {
	List(ctx context.Context, actor Actor) ([]InstallationRequest, error)
	Get(ctx context.Context, actor Actor, id uint) (*InstallationRequest, error)
	Create(ctx context.Context, actor Actor, req *InstallationRequest) (*InstallationRequest, error)
	Update(ctx context.Context, actor Actor, id uint, in InstallationUpdate) (*InstallationRequest, error)
	Assign(ctx context.Context, actor Actor, id, technicianID uint) (*InstallationRequest, *TechnicianJob, error)
}
