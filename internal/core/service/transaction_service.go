package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// transactionCSVColumns is the fixed layout of export.csv, also accepted by
// ImportCSV.
var transactionCSVColumns = []string{
	"_id", "date", "amount", "currency", "type", "category_id", "account", "tags",
	"vendor", "client", "project_id", "invoice_id", "receipt_url", "reconciled", "notes",
}

// TransactionService manages income and expense entries, including CSV
// import and export.
type TransactionService struct {
	repo     ports.TransactionRepository
	renderer ports.ReportRenderer
	logger   zerolog.Logger
	now      func() time.Time
	onImport func(rows, imported int)
}

func NewTransactionService(repo ports.TransactionRepository, renderer ports.ReportRenderer, logger zerolog.Logger) *TransactionService {
	return &TransactionService{repo: repo, renderer: renderer, logger: logger, now: time.Now}
}

// OnImport registers a hook receiving row and imported counts after each
// import (metrics).
func (s *TransactionService) OnImport(fn func(rows, imported int)) {
	s.onImport = fn
}

func (s *TransactionService) List(ctx context.Context, id domain.Identity, filter ports.TransactionFilter) ([]*domain.Transaction, error) {
	return s.repo.List(ctx, access.ScopeFor(access.ResourceTransactions, id), filter)
}

// Create requires a non-zero amount and a type of income or expense.
func (s *TransactionService) Create(ctx context.Context, id domain.Identity, in ports.TransactionInput) (*domain.Transaction, error) {
	amount := pick(in.Amount, 0)
	typ := domain.TransactionType(pick(in.Type, ""))
	if amount == 0 || typ == "" {
		return nil, fmt.Errorf("%w: amount and type are required", domain.ErrValidation)
	}
	if !finite(amount) {
		return nil, fmt.Errorf("%w: amount must be a finite number", domain.ErrValidation)
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense", domain.ErrValidation)
	}

	t := &domain.Transaction{
		ID:         newID(),
		UserID:     id.UserID,
		Date:       pick(in.Date, s.now()).UTC(),
		Amount:     amount,
		Currency:   pickText(in.Currency, domain.DefaultCurrency),
		Type:       typ,
		CategoryID: pickText(in.CategoryID, domain.DefaultCategory(typ)),
		Account:    pickText(in.Account, domain.DefaultAccount),
		Tags:       pick(in.Tags, []string{}),
		Vendor:     pick(in.Vendor, ""),
		Client:     pick(in.Client, ""),
		ProjectID:  pick(in.ProjectID, ""),
		InvoiceID:  pick(in.InvoiceID, ""),
		ReceiptURL: pick(in.ReceiptURL, ""),
		Reconciled: pick(in.Reconciled, false),
		Notes:      pick(in.Notes, ""),
		Splits:     pick(in.Splits, []domain.Split{}),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.logger.Info().Str("transaction_id", t.ID).Str("user_id", id.UserID).Msg("transaction created")
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, id domain.Identity, txID string, in ports.TransactionInput) (*domain.Transaction, error) {
	t, err := s.owned(ctx, id, txID)
	if err != nil {
		return nil, err
	}

	if in.Type != nil && *in.Type != "" && !domain.TransactionType(*in.Type).Valid() {
		return nil, fmt.Errorf("%w: type must be income or expense", domain.ErrValidation)
	}

	if in.Amount != nil && !finite(*in.Amount) {
		return nil, fmt.Errorf("%w: amount must be a finite number", domain.ErrValidation)
	}

	if in.Date != nil {
		t.Date = in.Date.UTC()
	}
	t.Amount = pick(in.Amount, t.Amount)
	t.Currency = pickText(in.Currency, t.Currency)
	t.Type = domain.TransactionType(pickText(in.Type, string(t.Type)))
	t.CategoryID = pickText(in.CategoryID, t.CategoryID)
	t.Account = pickText(in.Account, t.Account)
	t.Tags = pick(in.Tags, t.Tags)
	t.Vendor = pick(in.Vendor, t.Vendor)
	t.Client = pick(in.Client, t.Client)
	t.ProjectID = pick(in.ProjectID, t.ProjectID)
	t.InvoiceID = pick(in.InvoiceID, t.InvoiceID)
	t.ReceiptURL = pick(in.ReceiptURL, t.ReceiptURL)
	t.Reconciled = pick(in.Reconciled, t.Reconciled)
	t.Notes = pick(in.Notes, t.Notes)
	t.Splits = pick(in.Splits, t.Splits)

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return t, nil
}

// Delete returns the record as it was before removal.
func (s *TransactionService) Delete(ctx context.Context, id domain.Identity, txID string) (*domain.Transaction, error) {
	t, err := s.owned(ctx, id, txID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, txID); err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}
	s.logger.Info().Str("transaction_id", txID).Str("user_id", id.UserID).Msg("transaction deleted")
	return t, nil
}

func (s *TransactionService) owned(ctx context.Context, id domain.Identity, txID string) (*domain.Transaction, error) {
	t, err := s.repo.FindByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(access.ResourceTransactions, id, t.UserID) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// ExportCSV writes every visible transaction using transactionCSVColumns.
func (s *TransactionService) ExportCSV(ctx context.Context, id domain.Identity, w io.Writer) error {
	items, err := s.List(ctx, id, ports.TransactionFilter{})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(items))
	for _, t := range items {
		rows = append(rows, []string{
			t.ID,
			t.Date.UTC().Format(time.RFC3339),
			formatAmount(t.Amount),
			t.Currency,
			string(t.Type),
			t.CategoryID,
			t.Account,
			strings.Join(t.Tags, "|"),
			t.Vendor,
			t.Client,
			t.ProjectID,
			t.InvoiceID,
			t.ReceiptURL,
			strconv.FormatBool(t.Reconciled),
			t.Notes,
		})
	}
	return s.renderer.CSV(w, ports.Report{Columns: transactionCSVColumns, Rows: rows})
}

// ImportCSV inserts one transaction per data row, owned by the caller. Rows
// whose amount is zero or not a number are still inserted but are not
// counted in the returned total.
func (s *TransactionService) ImportCSV(ctx context.Context, id domain.Identity, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: malformed csv: %v", domain.ErrValidation, err)
	}
	records = dropBlankRecords(records)
	if len(records) < 2 {
		return 0, fmt.Errorf("%w: no rows", domain.ErrValidation)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	imported := 0
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}

		t := s.transactionFromRow(id, row)
		if err := s.repo.Create(ctx, t); err != nil {
			return imported, fmt.Errorf("import transaction: %w", err)
		}
		if t.Amount != 0 {
			imported++
		}
	}

	s.logger.Info().Str("user_id", id.UserID).Int("rows", len(records)-1).Int("imported", imported).Msg("transactions imported")
	if s.onImport != nil {
		s.onImport(len(records)-1, imported)
	}
	return imported, nil
}

func (s *TransactionService) transactionFromRow(id domain.Identity, row map[string]string) *domain.Transaction {
	date := s.now().UTC()
	if d, err := parseDate(row["date"]); err == nil {
		date = d
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(row["amount"]), 64)
	if err != nil || !finite(amount) {
		amount = 0
	}
	typ := domain.TransactionType(orDefault(row["type"], string(domain.TypeExpense)))

	var tags []string
	for _, tag := range strings.Split(row["tags"], "|") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if tags == nil {
		tags = []string{}
	}

	return &domain.Transaction{
		ID:         newID(),
		UserID:     id.UserID,
		Date:       date,
		Amount:     amount,
		Currency:   orDefault(row["currency"], domain.DefaultCurrency),
		Type:       typ,
		CategoryID: orDefault(row["category_id"], string(domain.TypeExpense)),
		Account:    orDefault(row["account"], domain.DefaultAccount),
		Tags:       tags,
		Vendor:     row["vendor"],
		Client:     row["client"],
		ProjectID:  row["project_id"],
		InvoiceID:  row["invoice_id"],
		ReceiptURL: row["receipt_url"],
		Reconciled: strings.TrimSpace(row["reconciled"]) == "true",
		Notes:      row["notes"],
		Splits:     []domain.Split{},
	}
}

func dropBlankRecords(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		blank := true
		for _, f := range rec {
			if strings.TrimSpace(f) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// dateLayouts are accepted wherever a date is read from user input.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

var errBadDate = errors.New("unrecognised date")

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errBadDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadDate
}
