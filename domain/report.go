package domain

import "context"

const (
	ReportCustomers     = "customers"
	ReportBilling       = "billing"
	ReportInstallations = "installations"
	ReportSupport       = "support"
	ReportJobs          = "jobs"
	ReportAll           = "all"

	ReportFormatExcel = "excel"
	ReportFormatPDF   = "pdf"
)

// ReportData is a full snapshot; reports are materialized in memory.
type ReportData struct {
	Users         []User
	Packages      []Package
	Subscriptions []Subscription
	Bills         []Bill
	Installations []InstallationRequest
	Tickets       []SupportTicket
	Jobs          []TechnicianJob
	Stats         []ConnectionStat
}

type ReportRepository interface {
	FetchReportData(ctx context.Context) (*ReportData, error)
}

type ReportType struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ReportUseCase interface {
	AvailableReports() []ReportType
	Generate(ctx context.Context, reportType, format string) (string, error)
	Resolve(filename string) (string, error)
	Cleanup(daysToKeep int) (int, error)
}
