package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

const (
	ExportTransactions = "transactions"
	ExportBudgets      = "budgets"

	exportDateLayout = "2006-01-02"
)

// ExportService renders transaction and budget reports as CSV or PDF.
type ExportService struct {
	transactions ports.TransactionRepository
	budgets      ports.BudgetRepository
	renderer     ports.ReportRenderer
	logger       zerolog.Logger
	now          func() time.Time
	onExport     func(format ports.ExportFormat, kind string)
}

func NewExportService(transactions ports.TransactionRepository, budgets ports.BudgetRepository, renderer ports.ReportRenderer, logger zerolog.Logger) *ExportService {
	return &ExportService{transactions: transactions, budgets: budgets, renderer: renderer, logger: logger, now: time.Now}
}

// OnExport registers a hook run after each successful export (metrics).
func (s *ExportService) OnExport(fn func(format ports.ExportFormat, kind string)) {
	s.onExport = fn
}

// Export renders the caller's visible transactions or budgets. Free-text and
// contact columns are only included when IncludeSensitive is set.
func (s *ExportService) Export(ctx context.Context, id domain.Identity, in ports.ExportInput) (*ports.ExportFile, error) {
	if in.Format != ports.FormatCSV && in.Format != ports.FormatPDF {
		return nil, fmt.Errorf("%w: format must be csv or pdf", domain.ErrValidation)
	}

	var (
		report ports.Report
		err    error
	)
	switch in.Type {
	case ExportTransactions:
		report, err = s.transactionReport(ctx, id, in)
	case ExportBudgets:
		report, err = s.budgetReport(ctx, id, in)
	default:
		return nil, fmt.Errorf("%w: type must be transactions or budgets", domain.ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	file := &ports.ExportFile{
		Filename: fmt.Sprintf("export-%s-%d.%s", in.Type, s.now().UnixMilli(), in.Format),
	}
	if in.Format == ports.FormatPDF {
		file.ContentType = "application/pdf"
		err = s.renderer.PDF(&buf, report)
	} else {
		file.ContentType = "text/csv"
		err = s.renderer.CSV(&buf, report)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", in.Format, err)
	}
	file.Body = buf.Bytes()

	s.logger.Info().
		Str("user_id", id.UserID).
		Str("type", in.Type).
		Str("format", string(in.Format)).
		Int("rows", len(report.Rows)).
		Msg("export generated")
	if s.onExport != nil {
		s.onExport(in.Format, in.Type)
	}
	return file, nil
}

func (s *ExportService) transactionReport(ctx context.Context, id domain.Identity, in ports.ExportInput) (ports.Report, error) {
	items, err := s.transactions.List(ctx, access.ScopeFor(access.ResourceTransactions, id), ports.TransactionFilter{From: in.From, To: in.To})
	if err != nil {
		return ports.Report{}, err
	}

	cols := []string{"date", "type", "category_id", "amount", "currency"}
	if in.IncludeSensitive {
		cols = append(cols, "notes", "vendor", "client")
	}

	var net float64
	rows := make([][]string, 0, len(items))
	for _, t := range items {
		net += t.Signed()
		row := []string{t.Date.UTC().Format(exportDateLayout), string(t.Type), t.CategoryID, strconv.FormatFloat(t.Amount, 'f', 2, 64), t.Currency}
		if in.IncludeSensitive {
			row = append(row, t.Notes, t.Vendor, t.Client)
		}
		rows = append(rows, row)
	}

	return ports.Report{
		Title: "Finance Export",
		Summary: []string{
			"Type: " + titleCase(in.Type),
			"Date: " + s.now().UTC().Format(exportDateLayout),
			fmt.Sprintf("Total Items: %d", len(items)),
			fmt.Sprintf("Net Balance: %.2f", net),
		},
		Columns: cols,
		Rows:    rows,
	}, nil
}

func (s *ExportService) budgetReport(ctx context.Context, id domain.Identity, in ports.ExportInput) (ports.Report, error) {
	items, err := s.budgets.List(ctx, access.ScopeFor(access.ResourceBudgets, id), ports.BudgetFilter{StartFrom: in.From, EndTo: in.To})
	if err != nil {
		return ports.Report{}, err
	}

	cols := []string{"category_id", "target", "start_date", "end_date"}
	if in.IncludeSensitive {
		cols = append(cols, "notes")
	}

	rows := make([][]string, 0, len(items))
	for _, b := range items {
		row := []string{b.CategoryID, strconv.FormatFloat(b.Target, 'f', 2, 64), b.StartDate.UTC().Format(exportDateLayout), b.EndDate.UTC().Format(exportDateLayout)}
		if in.IncludeSensitive {
			row = append(row, b.Notes)
		}
		rows = append(rows, row)
	}

	return ports.Report{
		Title: "Finance Export",
		Summary: []string{
			"Type: " + titleCase(in.Type),
			"Date: " + s.now().UTC().Format(exportDateLayout),
			fmt.Sprintf("Total Budgets: %d", len(items)),
		},
		Columns: cols,
		Rows:    rows,
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
