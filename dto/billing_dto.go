package dto

import "sekarnet/domain"

type CreateSubscriptionRequest struct {
	UserID    uint   `json:"userId"`
	PackageID uint   `json:"packageId" binding:"required"`
	StartDate int64  `json:"startDate" binding:"omitempty,gt=0"`
	Status    string `json:"status" binding:"omitempty,oneof=active suspended"`
}

func MakeCreateSubscriptionRequest(req *CreateSubscriptionRequest) domain.Subscription {
	return domain.Subscription{
		UserID:    req.UserID,
		PackageID: req.PackageID,
		StartDate: req.StartDate,
		Status:    req.Status,
	}
}

type UpdateSubscriptionRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended cancelled"`
}

type CreateBillRequest struct {
	UserID         uint   `json:"userId"`
	SubscriptionID uint   `json:"subscriptionId" binding:"required"`
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	DueDate        int64  `json:"dueDate" binding:"required,gt=0"`
	Period         string `json:"period" binding:"omitempty,period"`
}

func MakeCreateBillRequest(req *CreateBillRequest) domain.Bill {
	return domain.Bill{
		UserID:         req.UserID,
		SubscriptionID: req.SubscriptionID,
		Amount:         req.Amount,
		DueDate:        req.DueDate,
		Period:         req.Period,
	}
}

type UpdateBillRequest struct {
	Status  *string `json:"status" binding:"omitempty,oneof=unpaid pending paid overdue cancelled"`
	Amount  *int64  `json:"amount" binding:"omitempty,gt=0"`
	DueDate *int64  `json:"dueDate" binding:"omitempty,gt=0"`
	Period  *string `json:"period" binding:"omitempty,period"`
}

func MakeBillUpdate(req *UpdateBillRequest) domain.BillUpdate {
	return domain.BillUpdate{
		Status:  req.Status,
		Amount:  req.Amount,
		DueDate: req.DueDate,
		Period:  req.Period,
	}
}

type PaymentProofRequest struct {
	PaymentProof string `json:"paymentProof" binding:"required"`
}
