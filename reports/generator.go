package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sekarnet/domain"
	"strings"
	"time"
)

const filePrefix = "sekar-net-"

var available = []domain.ReportType{
	{Type: domain.ReportCustomers, Name: "Customer Report", Description: "Complete list of all customers with their details"},
	{Type: domain.ReportBilling, Name: "Billing Report", Description: "Billing information and payment status"},
	{Type: domain.ReportInstallations, Name: "Installation Report", Description: "Installation requests and their status"},
	{Type: domain.ReportSupport, Name: "Support Report", Description: "Support tickets and resolution status"},
	{Type: domain.ReportJobs, Name: "Technician Job Report", Description: "Technician assignments and completion"},
	{Type: domain.ReportAll, Name: "Comprehensive Report", Description: "All data in one comprehensive report"},
}

// Generator writes report files into Dir.
type Generator struct {
	Dir string
	Now func() time.Time
}

func NewGenerator(dir string) *Generator {
	return &Generator{Dir: dir, Now: time.Now}
}

func (g *Generator) Available() []domain.ReportType {
	out := make([]domain.ReportType, len(available))
	copy(out, available)
	return out
}

// Generate renders data and returns the written file path.
func (g *Generator) Generate(reportType, format string, data *domain.ReportData) (string, error) {
	var ext string
	switch format {
	case domain.ReportFormatExcel:
		ext = "xlsx"
	case domain.ReportFormatPDF:
		ext = "pdf"
	default:
		return "", fmt.Errorf("%w: unsupported report format %q", domain.ErrValidation, format)
	}

	tables, summary, err := Build(reportType, data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", err
	}

	now := g.Now()
	path := filepath.Join(g.Dir, fmt.Sprintf("%s%s-%d.%s", filePrefix, reportType, now.UnixMilli(), ext))
	if ext == "xlsx" {
		err = writeExcel(path, reportType, tables, summary, now)
	} else {
		err = writePDF(path, reportType, tables, summary, now)
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Resolve maps a bare file name to its path, rejecting anything outside Dir.
func (g *Generator) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasPrefix(name, filePrefix) {
		return "", fmt.Errorf("%w: invalid report file name", domain.ErrValidation)
	}
	path := filepath.Join(g.Dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: report file", domain.ErrNotFound)
	}
	return path, nil
}

// Cleanup deletes report files last modified before now - daysToKeep.
func (g *Generator) Cleanup(daysToKeep int) (int, error) {
	if daysToKeep < 0 {
		return 0, fmt.Errorf("%w: daysToKeep must not be negative", domain.ErrValidation)
	}
	entries, err := os.ReadDir(g.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := g.Now().Add(-time.Duration(daysToKeep) * 24 * time.Hour)
	deleted := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(g.Dir, e.Name())); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}
