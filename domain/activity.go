package domain

import "context"

const (
	ActivityRegister            = "register"
	ActivityLogin               = "login"
	ActivityInstallationRequest = "installation_requested"
	ActivityTicketCreated       = "ticket_created"
	ActivityPaymentProof        = "payment_proof_uploaded"
	ActivitySubscriptionCreated = "subscription_created"
)

type ActivityRepository interface {
	CreateActivity(ctx context.Context, a *UserActivity) error
	GetUserActivities(ctx context.Context, userID uint) ([]UserActivity, error)
	GetAllActivities(ctx context.Context) ([]UserActivity, error)
}

type ConnectionStatRepository interface {
	CreateStat(ctx context.Context, s *ConnectionStat) error
	GetUserStats(ctx context.Context, userID uint) ([]ConnectionStat, error)
	GetAllStats(ctx context.Context) ([]ConnectionStat, error)
}

type ActivityUseCase interface {
	ListActivities(ctx context.Context, actor Actor) ([]UserActivity, error)
	ListStats(ctx context.Context, actor Actor) ([]ConnectionStat, error)
	RecordStat(ctx context.Context, actor Actor, s *ConnectionStat) (*ConnectionStat, error)
}
