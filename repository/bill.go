package repository

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billRepo struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) domain.BillRepository {
	return &billRepo{db: db}
}

func (r *billRepo) CreateBill(ctx context.Context, bill *domain.Bill) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		var sub domain.Subscription
		if err := tx.First(&sub, bill.SubscriptionID).Error; err != nil {
			return notFound(err, "subscription")
		}
		switch {
		case bill.UserID == 0:
			bill.UserID = sub.UserID
		case bill.UserID != sub.UserID:
			return fmt.Errorf("%w: subscription %d belongs to user %d, not %d",
				domain.ErrValidation, sub.ID, sub.UserID, bill.UserID)
		}
		return dbError(tx.Create(bill).Error)
	})
}

func (r *billRepo) GetBillByID(ctx context.Context, id uint) (*domain.Bill, error) {
	var bill domain.Bill
	if err := r.db.WithContext(ctx).First(&bill, id).Error; err != nil {
		return nil, notFound(err, "bill")
	}
	return &bill, nil
}

func (r *billRepo) GetAllBills(ctx context.Context) ([]domain.Bill, error) {
	var bills []domain.Bill
	if err := r.db.WithContext(ctx).Order("due_date DESC").Find(&bills).Error; err != nil {
		return nil, dbError(err)
	}
	return bills, nil
}

func (r *billRepo) GetUserBills(ctx context.Context, userID uint) ([]domain.Bill, error) {
	var bills []domain.Bill
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("due_date DESC").Find(&bills).Error; err != nil {
		return nil, dbError(err)
	}
	return bills, nil
}

func (r *billRepo) UpdateBillDetails(ctx context.Context, id uint, in domain.BillUpdate) (*domain.Bill, error) {
	updates := map[string]interface{}{}
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.Period != nil {
		updates["period"] = *in.Period
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&domain.Bill{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, dbError(err)
		}
	}
	return r.GetBillByID(ctx, id)
}

func (r *billRepo) TransitionBill(ctx context.Context, id uint, to string, mutate func(*domain.Bill) error, fx domain.SideEffects) (*domain.Bill, error) {
	var bill domain.Bill
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bill, id).Error; err != nil {
			return notFound(err, "bill")
		}
		if err := domain.BillFlow.Transition(bill.Status, to); err != nil {
			return err
		}
		bill.Status = to
		if mutate != nil {
			if err := mutate(&bill); err != nil {
				return err
			}
		}
		if err := tx.Model(&domain.Bill{}).Where("id = ?", bill.ID).
			Select("status", "payment_date", "payment_proof").
			Updates(&bill).Error; err != nil {
			return dbError(err)
		}
		return applySideEffects(tx, fx, time.Now().Unix())
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}
