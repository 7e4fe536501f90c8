package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// InvoiceService manages invoices and recomputes their totals from items.
type InvoiceService struct {
	repo    ports.InvoiceRepository
	clients ports.ClientRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewInvoiceService(repo ports.InvoiceRepository, clients ports.ClientRepository, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{repo: repo, clients: clients, logger: logger, now: time.Now}
}

// List returns visible invoices with their client summary attached.
func (s *InvoiceService) List(ctx context.Context, id domain.Identity) ([]*domain.Invoice, error) {
	invoices, err := s.repo.List(ctx, access.ScopeFor(access.ResourceInvoices, id))
	if err != nil {
		return nil, err
	}
	if err := s.attachClients(ctx, invoices...); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *InvoiceService) Get(ctx context.Context, id domain.Identity, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.owned(ctx, id, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.attachClients(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Create requires client, number, both dates and at least one item. Totals
// are derived from the items.
func (s *InvoiceService) Create(ctx context.Context, id domain.Identity, in ports.InvoiceInput) (*domain.Invoice, error) {
	if in.ClientID == nil || *in.ClientID == "" || in.InvoiceNumber == nil || strings.TrimSpace(*in.InvoiceNumber) == "" ||
		in.IssueDate == nil || in.DueDate == nil || in.Items == nil || len(*in.Items) == 0 {
		return nil, fmt.Errorf("%w: client_id, invoice_number, issue_date, due_date and items are required", domain.ErrValidation)
	}

	status := domain.InvoiceStatus(pickText(in.Status, string(domain.InvoiceDraft)))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	inv := &domain.Invoice{
		ID:            newID(),
		UserID:        id.UserID,
		ClientID:      *in.ClientID,
		InvoiceNumber: strings.TrimSpace(*in.InvoiceNumber),
		Status:        status,
		IssueDate:     in.IssueDate.UTC(),
		DueDate:       in.DueDate.UTC(),
		Currency:      pickText(in.Currency, domain.DefaultCurrency),
		Notes:         pick(in.Notes, ""),
		CreatedAt:     s.now().UTC(),
	}
	inv.ApplyItems(*in.Items)

	if err := s.repo.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: invoice number %s already exists", domain.ErrConflict, inv.InvoiceNumber)
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	s.logger.Info().Str("invoice_id", inv.ID).Str("invoice_number", inv.InvoiceNumber).Msg("invoice created")
	return inv, nil
}

// Update merges supplied fields. Supplying items replaces them and
// recomputes every total.
func (s *InvoiceService) Update(ctx context.Context, id domain.Identity, invoiceID string, in ports.InvoiceInput) (*domain.Invoice, error) {
	inv, err := s.owned(ctx, id, invoiceID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && *in.Status != "" {
		status := domain.InvoiceStatus(*in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
		}
		inv.Status = status
	}
	if in.Items != nil {
		if len(*in.Items) == 0 {
			return nil, fmt.Errorf("%w: items cannot be empty", domain.ErrValidation)
		}
		inv.ApplyItems(*in.Items)
	}
	inv.ClientID = pickText(in.ClientID, inv.ClientID)
	inv.InvoiceNumber = strings.TrimSpace(pickText(in.InvoiceNumber, inv.InvoiceNumber))
	if in.IssueDate != nil {
		inv.IssueDate = in.IssueDate.UTC()
	}
	if in.DueDate != nil {
		inv.DueDate = in.DueDate.UTC()
	}
	inv.Currency = pickText(in.Currency, inv.Currency)
	inv.Notes = pick(in.Notes, inv.Notes)

	if err := s.repo.Update(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: invoice number %s already exists", domain.ErrConflict, inv.InvoiceNumber)
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id domain.Identity, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.owned(ctx, id, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, invoiceID); err != nil {
		return nil, fmt.Errorf("delete invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) owned(ctx context.Context, id domain.Identity, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(access.ResourceInvoices, id, inv.UserID) {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// attachClients resolves the client summary of each invoice in one lookup.
// Invoices whose client no longer exists are returned without a summary.
func (s *InvoiceService) attachClients(ctx context.Context, invoices ...*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		if inv.ClientID != "" && !seen[inv.ClientID] {
			seen[inv.ClientID] = true
			ids = append(ids, inv.ClientID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	clients, err := s.clients.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve invoice clients: %w", err)
	}
	byID := make(map[string]*domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	for _, inv := range invoices {
		if c, ok := byID[inv.ClientID]; ok {
			inv.Client = &domain.ClientSummary{ID: c.ID, Name: c.Name, Email: c.Email}
		}
	}
	return nil
}
