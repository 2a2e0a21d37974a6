package repository

import (
	"context"
	"sekarnet/domain"

	"gorm.io/gorm"
)

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) domain.ReportRepository {
	return &reportRepo{db: db}
}

// FetchReportData loads every table the reports join in memory.
func (r *reportRepo) FetchReportData(ctx context.Context) (*domain.ReportData, error) {
	var data domain.ReportData
	db := r.db.WithContext(ctx)

	steps := []struct {
		dest  interface{}
		order string
	}{
		{&data.Users, "created_at DESC"},
		{&data.Packages, "id ASC"},
		{&data.Subscriptions, "created_at DESC"},
		{&data.Bills, "due_date DESC"},
		{&data.Installations, "created_at DESC"},
		{&data.Tickets, "created_at DESC"},
		{&data.Jobs, "scheduled_date DESC"},
		{&data.Stats, "recorded_at DESC"},
	}
	for _, s := range steps {
		if err := db.Order(s.order).Find(s.dest).Error; err != nil {
			return nil, dbError(err)
		}
	}
	return &data, nil
}
