package reports

import (
	"fmt"
	"sekarnet/domain"
	"sekarnet/utils"
	"strings"
	"time"
)

// Table is one sheet in xlsx or one section in pdf.
type Table struct {
	Title   string
	Headers []string
	Widths  []float64
	Rows    [][]string
}

// BillingSummary totals the billing report.
type BillingSummary struct {
	TotalBills   int
	PaidBills    int
	UnpaidBills  int
	PaymentRate  float64
	TotalRevenue int64
}

func (s BillingSummary) Table() Table {
	return Table{
		Title:   "Billing Summary",
		Headers: []string{"Metric", "Value"},
		Widths:  []float64{25, 25},
		Rows: [][]string{
			{"Total Bills", fmt.Sprint(s.TotalBills)},
			{"Paid Bills", fmt.Sprint(s.PaidBills)},
			{"Unpaid Bills", fmt.Sprint(s.UnpaidBills)},
			{"Payment Rate", fmt.Sprintf("%.2f%%", s.PaymentRate)},
			{"Total Revenue", utils.FormatRupiah(s.TotalRevenue)},
		},
	}
}

func Summarize(bills []domain.Bill) BillingSummary {
	var s BillingSummary
	s.TotalBills = len(bills)
	for _, b := range bills {
		switch b.Status {
		case domain.BillPaid:
			s.PaidBills++
			s.TotalRevenue += b.Amount
		case domain.BillUnpaid, domain.BillOverdue:
			s.UnpaidBills++
		}
	}
	if s.TotalBills > 0 {
		s.PaymentRate = float64(s.PaidBills) / float64(s.TotalBills) * 100
	}
	return s
}

func date(unix int64) string {
	if unix == 0 {
		return "N/A"
	}
	return time.Unix(unix, 0).Format("02/01/2006")
}

func optDate(unix *int64) string {
	if unix == nil {
		return "N/A"
	}
	return date(*unix)
}

func orNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "N/A"
	}
	return *s
}

type lookup struct {
	users    map[uint]string
	packages map[uint]string
}

func newLookup(data *domain.ReportData) lookup {
	l := lookup{users: map[uint]string{}, packages: map[uint]string{}}
	for _, u := range data.Users {
		l.users[u.ID] = u.FullName
	}
	for _, p := range data.Packages {
		l.packages[p.ID] = p.Name
	}
	return l
}

func (l lookup) user(id uint) string {
	if n, ok := l.users[id]; ok {
		return n
	}
	return "Unknown"
}

func (l lookup) userPtr(id *uint) string {
	if id == nil {
		return "N/A"
	}
	return l.user(*id)
}

func (l lookup) pkg(id uint) string {
	if n, ok := l.packages[id]; ok {
		return n
	}
	return "Unknown"
}

// Build returns the tables for reportType, with the billing summary when
// billing is included.
func Build(reportType string, data *domain.ReportData) ([]Table, *BillingSummary, error) {
	l := newLookup(data)
	var (
		tables  []Table
		summary *BillingSummary
	)
	include := func(t string) bool { return reportType == t || reportType == domain.ReportAll }

	if include(domain.ReportCustomers) {
		t := Table{
			Title:   "Customers",
			Headers: []string{"ID", "Full Name", "Email", "Phone", "Address", "Role", "Created Date"},
			Widths:  []float64{8, 25, 30, 16, 40, 12, 16},
		}
		for _, u := range data.Users {
			t.Rows = append(t.Rows, []string{fmt.Sprint(u.ID), u.FullName, u.Email, orNA(u.Phone), orNA(u.Address), u.Role, date(u.CreatedAt)})
		}
		tables = append(tables, t)
	}
	if include(domain.ReportBilling) {
		t := Table{
			Title:   "Billing",
			Headers: []string{"Bill No", "Customer", "Amount", "Status", "Due Date", "Period", "Payment Date"},
			Widths:  []float64{14, 25, 18, 12, 16, 16, 16},
		}
		for _, b := range data.Bills {
			t.Rows = append(t.Rows, []string{utils.BillNumber(b.ID), l.user(b.UserID), utils.FormatRupiah(b.Amount), b.Status, date(b.DueDate), b.Period, optDate(b.PaymentDate)})
		}
		tables = append(tables, t)
		s := Summarize(data.Bills)
		summary = &s
	}
	if include(domain.ReportInstallations) {
		t := Table{
			Title:   "Installations",
			Headers: []string{"ID", "Customer", "Package", "Address", "Status", "Technician", "Preferred Date", "Created Date"},
			Widths:  []float64{8, 25, 18, 40, 12, 20, 16, 16},
		}
		for _, r := range data.Installations {
			t.Rows = append(t.Rows, []string{fmt.Sprint(r.ID), l.user(r.UserID), l.pkg(r.PackageID), r.Address, r.Status, l.userPtr(r.TechnicianID), optDate(r.PreferredDate), date(r.CreatedAt)})
		}
		tables = append(tables, t)
	}
	if include(domain.ReportSupport) {
		t := Table{
			Title:   "Support Tickets",
			Headers: []string{"ID", "Customer", "Subject", "Status", "Priority", "Technician", "Created Date"},
			Widths:  []float64{8, 25, 40, 12, 10, 20, 16},
		}
		for _, tk := range data.Tickets {
			t.Rows = append(t.Rows, []string{fmt.Sprint(tk.ID), l.user(tk.UserID), tk.Subject, tk.Status, tk.Priority, l.userPtr(tk.TechnicianID), date(tk.CreatedAt)})
		}
		tables = append(tables, t)
	}
	if include(domain.ReportJobs) {
		t := Table{
			Title:   "Technician Jobs",
			Headers: []string{"ID", "Technician", "Type", "Status", "Link", "Scheduled", "Completed"},
			Widths:  []float64{8, 25, 14, 12, 18, 16, 16},
		}
		for _, j := range data.Jobs {
			link := "N/A"
			switch {
			case j.InstallationID != nil:
				link = fmt.Sprintf("installation #%d", *j.InstallationID)
			case j.TicketID != nil:
				link = fmt.Sprintf("ticket #%d", *j.TicketID)
			}
			t.Rows = append(t.Rows, []string{fmt.Sprint(j.ID), l.user(j.TechnicianID), j.JobType, j.Status, link, date(j.ScheduledDate), optDate(j.CompletionDate)})
		}
		tables = append(tables, t)
	}

	if len(tables) == 0 {
		return nil, nil, fmt.Errorf("%w: unknown report type %q", domain.ErrValidation, reportType)
	}
	return tables, summary, nil
}
