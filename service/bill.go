package service

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"sekarnet/notifier"
	"sekarnet/utils"
	"strings"
	"time"
)

type billService struct {
	repo             domain.BillRepository
	userRepo         domain.UserRepository
	notificationRepo domain.NotificationRepository
	now              clock
}

func NewBillService(repo domain.BillRepository, userRepo domain.UserRepository, notificationRepo domain.NotificationRepository) domain.BillUseCase {
	return &billService{
		repo:             repo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

func (s *billService) List(ctx context.Context, actor domain.Actor) ([]domain.Bill, error) {
	if actor.IsAdmin() {
		return s.repo.GetAllBills(ctx)
	}
	return s.repo.GetUserBills(ctx, actor.ID)
}

func (s *billService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.Bill, error) {
	bill, err := s.repo.GetBillByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actor, bill.UserID) {
		return nil, forbidden("bill %d", id)
	}
	return bill, nil
}

func (s *billService) Create(ctx context.Context, actor domain.Actor, bill *domain.Bill) (*domain.Bill, error) {
	if err := require(actor, domain.ActionBillCreate); err != nil {
		return nil, err
	}
	if bill.SubscriptionID == 0 {
		return nil, invalid("subscriptionId is required")
	}
	if bill.Amount <= 0 {
		return nil, invalid("amount must be positive")
	}
	if bill.DueDate == 0 {
		return nil, invalid("dueDate is required")
	}
	bill.Period = strings.TrimSpace(bill.Period)
	if bill.Period == "" {
		bill.Period = utils.PeriodLabel(time.Unix(bill.DueDate, 0))
	}

	bill.ID = 0
	bill.Status = domain.BillUnpaid
	bill.PaymentDate = nil
	bill.PaymentProof = nil
	if err := s.repo.CreateBill(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// Update handles admin edits. Status changes other than paid go straight
// through the flow; paid is routed to Confirm so its side effects apply.
func (s *billService) Update(ctx context.Context, actor domain.Actor, id uint, in domain.BillUpdate) (*domain.Bill, error) {
	if err := require(actor, domain.ActionBillUpdate); err != nil {
		return nil, err
	}
	bill, err := s.repo.GetBillByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, invalid("amount must be positive")
	}
	if in.Amount != nil || in.DueDate != nil || in.Period != nil {
		if bill.Status == domain.BillPaid {
			return nil, invalid("paid bills cannot be edited")
		}
		if bill, err = s.repo.UpdateBillDetails(ctx, id, in); err != nil {
			return nil, err
		}
	}
	if in.Status == nil || *in.Status == bill.Status {
		return bill, nil
	}

	switch to := *in.Status; to {
	case domain.BillPaid:
		return s.Confirm(ctx, actor, id)
	case domain.BillUnpaid:
		var fx domain.SideEffects
		notifyUser(&fx, bill.UserID, "Bukti Pembayaran Ditolak",
			fmt.Sprintf("Bukti pembayaran untuk tagihan %s ditolak, silakan unggah ulang", utils.BillNumber(bill.ID)),
			domain.NotificationBilling)
		return s.repo.TransitionBill(ctx, id, to, func(b *domain.Bill) error {
			b.PaymentProof = nil
			return nil
		}, fx)
	default:
		return s.repo.TransitionBill(ctx, id, to, nil, domain.SideEffects{})
	}
}

// AttachProof records a payment proof and hands the bill to an admin.
func (s *billService) AttachProof(ctx context.Context, actor domain.Actor, id uint, proof string) (*domain.Bill, error) {
	if err := require(actor, domain.ActionBillPay); err != nil {
		return nil, err
	}
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return nil, invalid("paymentProof is required")
	}
	bill, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var fx domain.SideEffects
	fx.Record(bill.UserID, domain.ActivityPaymentProof, map[string]interface{}{
		"billId": bill.ID,
		"period": bill.Period,
	})
	notifyRole(&fx, domain.RoleAdmin, "Bukti Pembayaran Baru",
		fmt.Sprintf("Tagihan %s periode %s menunggu konfirmasi", utils.BillNumber(bill.ID), bill.Period),
		domain.NotificationBilling)

	return s.repo.TransitionBill(ctx, id, domain.BillPending, func(b *domain.Bill) error {
		b.PaymentProof = &proof
		return nil
	}, fx)
}

func (s *billService) Confirm(ctx context.Context, actor domain.Actor, id uint) (*domain.Bill, error) {
	if err := require(actor, domain.ActionBillConfirm); err != nil {
		return nil, err
	}
	bill, err := s.repo.GetBillByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetUserByID(ctx, bill.UserID)
	if err != nil {
		return nil, err
	}

	var fx domain.SideEffects
	notifyUser(&fx, owner.ID, "Pembayaran Dikonfirmasi",
		fmt.Sprintf("Pembayaran tagihan %s periode %s telah dikonfirmasi", utils.BillNumber(bill.ID), bill.Period),
		domain.NotificationBilling)
	fx.Enqueue(domain.ChannelEmail, notifier.TemplatePaymentConfirmed, owner.Email, map[string]interface{}{
		"customerName": owner.FullName,
		"billNumber":   utils.BillNumber(bill.ID),
		"period":       bill.Period,
		"amount":       utils.FormatRupiah(bill.Amount),
	})

	now := s.now.unix()
	return s.repo.TransitionBill(ctx, id, domain.BillPaid, func(b *domain.Bill) error {
		if b.PaymentProof == nil || *b.PaymentProof == "" {
			return invalid("bill %d has no payment proof", b.ID)
		}
		b.PaymentDate = &now
		return nil
	}, fx)
}

func (s *billService) SendReminder(ctx context.Context, actor domain.Actor, id uint) error {
	if err := require(actor, domain.ActionBillRemind); err != nil {
		return err
	}
	bill, err := s.repo.GetBillByID(ctx, id)
	if err != nil {
		return err
	}
	if bill.Status != domain.BillUnpaid && bill.Status != domain.BillOverdue {
		return invalid("reminders are only sent for unpaid or overdue bills")
	}
	owner, err := s.userRepo.GetUserByID(ctx, bill.UserID)
	if err != nil {
		return err
	}

	var fx domain.SideEffects
	payload := map[string]interface{}{
		"customerName": owner.FullName,
		"period":       bill.Period,
		"dueDate":      utils.FormatDateID(bill.DueDate),
		"billNumber":   utils.BillNumber(bill.ID),
		"amount":       utils.FormatRupiah(bill.Amount),
	}
	fx.Enqueue(domain.ChannelEmail, notifier.TemplatePaymentReminder, owner.Email, payload)
	fx.Enqueue(domain.ChannelSMS, notifier.TemplatePaymentReminder, phoneOf(owner), payload)
	fx.Enqueue(domain.ChannelPush, "notification", fmt.Sprintf("user:%d", owner.ID), map[string]interface{}{
		"type": "payment_reminder",
		"data": map[string]interface{}{"billId": bill.ID, "period": bill.Period},
	})

	ownerID := owner.ID
	return s.notificationRepo.Create(ctx, &domain.Notification{
		UserID:  &ownerID,
		Title:   "Pengingat Pembayaran",
		Message: fmt.Sprintf("Tagihan %s periode %s jatuh tempo %s", utils.BillNumber(bill.ID), bill.Period, utils.FormatDateID(bill.DueDate)),
		Type:    domain.NotificationBilling,
	}, fx)
}

func (s *billService) History(ctx context.Context, actor domain.Actor) ([]domain.Bill, error) {
	bills, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	paid := make([]domain.Bill, 0, len(bills))
	for _, b := range bills {
		if b.Status == domain.BillPaid {
			paid = append(paid, b)
		}
	}
	return paid, nil
}

func (s *billService) Statistics(ctx context.Context) (*domain.PaymentStatistics, error) {
	bills, err := s.repo.GetAllBills(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.PaymentStatistics{TotalBills: len(bills)}
	for _, b := range bills {
		switch b.Status {
		case domain.BillPaid:
			stats.PaidBills++
			stats.TotalRevenue += b.Amount
		case domain.BillPending:
			stats.PendingBills++
			stats.PendingRevenue += b.Amount
		case domain.BillUnpaid:
			stats.UnpaidBills++
		case domain.BillOverdue:
			stats.OverdueBills++
		}
	}
	return stats, nil
}
