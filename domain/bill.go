package domain

import "context"

type BillUpdate struct {
	Status  *string
	Amount  *int64
	DueDate *int64
	Period  *string
}

type PaymentStatistics struct {
	TotalBills     int   `json:"totalBills"`
	PaidBills      int   `json:"paidBills"`
	PendingBills   int   `json:"pendingBills"`
	UnpaidBills    int   `json:"unpaidBills"`
	OverdueBills   int   `json:"overdueBills"`
	TotalRevenue   int64 `json:"totalRevenue"`
	PendingRevenue int64 `json:"pendingRevenue"`
}

type BillRepository interface {
	CreateBill(ctx context.Context, bill *Bill) error
	GetBillByID(ctx context.Context, id uint) (*Bill, error)
	GetAllBills(ctx context.Context) ([]Bill, error)
	GetUserBills(ctx context.Context, userID uint) ([]Bill, error)
	UpdateBillDetails(ctx context.Context, id uint, in BillUpdate) (*Bill, error)
	// TransitionBill re-reads the bill inside a transaction, checks the edge,
	// lets mutate adjust the row and persists it with fx.
	TransitionBill(ctx context.Context, id uint, to string, mutate func(*Bill) error, fx SideEffects) (*Bill, error)
}

type BillUseCase interface {
	List(ctx context.Context, actor Actor) ([]Bill, error)
	Get(ctx context.Context, actor Actor, id uint) (*Bill, error)
	Create(ctx context.Context, actor Actor, bill *Bill) (*Bill, error)
	Update(ctx context.Context, actor Actor, id uint, in BillUpdate) (*Bill, error)
	AttachProof(ctx context.Context, actor Actor, id uint, proof string) (*Bill, error)
	Confirm(ctx context.Context, actor Actor, id uint) (*Bill, error)
	SendReminder(ctx context.Context, actor Actor, id uint) error
	History(ctx context.Context, actor Actor) ([]Bill, error)
	Statistics(ctx context.Context) (*PaymentStatistics, error)
}
