package service

import (
	"context"
	"sekarnet/domain"
	"sekarnet/reports"
)

type reportService struct {
	repo      domain.ReportRepository
	generator *reports.Generator
}

func NewReportService(repo domain.ReportRepository, generator *reports.Generator) domain.ReportUseCase {
	return &reportService{repo: repo, generator: generator}
}

func (s *reportService) AvailableReports() []domain.ReportType {
	return s.generator.Available()
}

// Generate loads a full snapshot and writes it synchronously.
func (s *reportService) Generate(ctx context.Context, reportType, format string) (string, error) {
	if format == "" {
		format = domain.ReportFormatExcel
	}
	data, err := s.repo.FetchReportData(ctx)
	if err != nil {
		return "", err
	}
	return s.generator.Generate(reportType, format, data)
}

func (s *reportService) Resolve(filename string) (string, error) {
	return s.generator.Resolve(filename)
}

func (s *reportService) Cleanup(daysToKeep int) (int, error) {
	return s.generator.Cleanup(daysToKeep)
}
