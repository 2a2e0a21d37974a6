package domain

import "gorm.io/datatypes"

const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
	RoleCustomer   = "customer"

	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"

	InstallationPending    = "pending"
	InstallationScheduled  = "scheduled"
	InstallationInProgress = "in_progress"
	InstallationCompleted  = "completed"
	InstallationCancelled  = "cancelled"

	BillUnpaid    = "unpaid"
	BillPending   = "pending"
	BillPaid      = "paid"
	BillOverdue   = "overdue"
	BillCancelled = "cancelled"

	TicketNew        = "new"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	JobScheduled  = "scheduled"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"

	JobTypeInstallation = "installation"
	JobTypeSupport      = "support"
	JobTypeMaintenance  = "maintenance"

	NotificationAnnouncement = "announcement"
	NotificationMaintenance  = "maintenance"
	NotificationOutage       = "outage"
	NotificationBilling      = "billing"
	NotificationSupport      = "support"
	NotificationInstallation = "installation"
)

type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Username  string  `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Password  string  `gorm:"not null" json:"-"`
	Email     string  `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string  `gorm:"not null;size:100" json:"fullName"`
	Role      string  `gorm:"not null;size:20;default:customer;index" json:"role"` // customer | technician | admin
	Phone     *string `gorm:"size:20" json:"phone,omitempty"`
	Address   *string `gorm:"type:text" json:"address,omitempty"`
	CreatedAt int64   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt int64   `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Package struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Name          string                      `gorm:"not null" json:"name"`
	Description   string                      `gorm:"type:text" json:"description"`
	DownloadSpeed int                         `gorm:"not null" json:"speed"`       // Mbps
	UploadSpeed   int                         `gorm:"not null" json:"uploadSpeed"` // Mbps
	Price         int64                       `gorm:"not null" json:"price"`
	Features      datatypes.JSONSlice[string] `json:"features"`
	IsPopular     bool                        `gorm:"default:false" json:"isPopular"`
	CreatedAt     int64                       `gorm:"autoCreateTime" json:"createdAt"`
}

type Subscription struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"userId"`
	PackageID uint   `gorm:"not null" json:"packageId"`
	Status    string `gorm:"size:20;not null;default:active" json:"status"`
	StartDate int64  `gorm:"not null" json:"startDate"`
	EndDate   *int64 `json:"endDate,omitempty"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"createdAt"`

	Package *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

type InstallationRequest struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	UserID        uint    `gorm:"not null;index" json:"userId"`
	PackageID     uint    `gorm:"not null" json:"packageId"`
	Address       string  `gorm:"type:text;not null" json:"address"`
	PreferredDate *int64  `json:"preferredDate,omitempty"`
	Status        string  `gorm:"size:20;not null;default:pending;index" json:"status"`
	TechnicianID  *uint   `gorm:"index" json:"technicianId,omitempty"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     int64   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     int64   `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Bill struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	UserID         uint    `gorm:"not null;index" json:"userId"`
	SubscriptionID uint    `gorm:"not null" json:"subscriptionId"`
	Amount         int64   `gorm:"not null" json:"amount"`
	DueDate        int64   `gorm:"not null" json:"dueDate"`
	Status         string  `gorm:"size:20;not null;default:unpaid;index" json:"status"`
	PaymentDate    *int64  `json:"paymentDate,omitempty"`
	PaymentProof   *string `gorm:"type:text" json:"paymentProof,omitempty"`
	Period         string  `gorm:"not null;size:30" json:"period"` // e.g. "Mei 2025"
	CreatedAt      int64   `gorm:"autoCreateTime" json:"createdAt"`
}

type SupportTicket struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	UserID       uint                        `gorm:"not null;index" json:"userId"`
	Subject      string                      `gorm:"not null" json:"subject"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Priority     string                      `gorm:"size:10;not null;default:medium" json:"priority"`
	Status       string                      `gorm:"size:20;not null;default:new;index" json:"status"`
	TechnicianID *uint                       `gorm:"index" json:"technicianId,omitempty"`
	Response     *string                     `gorm:"type:text" json:"response,omitempty"`
	RespondedAt  *int64                      `json:"respondedAt,omitempty"`
	Attachments  datatypes.JSONSlice[string] `json:"attachments"`
	CreatedAt    int64                       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    int64                       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TechnicianJob links to exactly one installation or ticket. The unique indexes
// keep one job per (request, technician) pair.
type TechnicianJob struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	TechnicianID    uint                        `gorm:"not null;index;uniqueIndex:idx_job_installation_technician;uniqueIndex:idx_job_ticket_technician" json:"technicianId"`
	InstallationID  *uint                       `gorm:"uniqueIndex:idx_job_installation_technician" json:"installationId,omitempty"`
	TicketID        *uint                       `gorm:"uniqueIndex:idx_job_ticket_technician" json:"ticketId,omitempty"`
	JobType         string                      `gorm:"size:20;not null" json:"jobType"`
	Status          string                      `gorm:"size:20;not null;default:scheduled;index" json:"status"`
	ScheduledDate   int64                       `gorm:"not null" json:"scheduledDate"`
	CompletionDate  *int64                      `json:"completionDate,omitempty"`
	CompletionProof datatypes.JSONSlice[string] `json:"completionProof"`
	Notes           *string                     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       int64                       `gorm:"autoCreateTime" json:"createdAt"`
}

type Notification struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserID     *uint   `gorm:"index" json:"userId"`     // nil = broadcast
	TargetRole *string `gorm:"size:20" json:"targetRole"` // nil = every role
	Title      string  `gorm:"not null" json:"title"`
	Message    string  `gorm:"type:text;not null" json:"message"`
	Type       string  `gorm:"size:20;not null" json:"type"`
	IsRead     bool    `gorm:"default:false" json:"isRead"`
	CreatedAt  int64   `gorm:"autoCreateTime" json:"createdAt"`
}

type UserActivity struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"userId"`
	Action    string            `gorm:"not null;size:50" json:"action"`
	Details   datatypes.JSONMap `json:"details,omitempty"`
	CreatedAt int64             `gorm:"autoCreateTime" json:"createdAt"`
}

type ConnectionStat struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	UserID        uint     `gorm:"not null;index" json:"userId"`
	DownloadSpeed float64  `gorm:"not null" json:"downloadSpeed"`
	UploadSpeed   float64  `gorm:"not null" json:"uploadSpeed"`
	Ping          *float64 `json:"ping,omitempty"`
	RecordedAt    int64    `gorm:"autoCreateTime" json:"recordedAt"`
}
