package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

var errStoreDown = errors.New("store down")

// matchTransaction mirrors the predicate the Mongo repository builds from a
// TransactionFilter.
func matchTransaction(f ports.TransactionFilter, t *domain.Transaction) bool {
	switch {
	case f.Type != "" && t.Type != f.Type:
		return false
	case f.Account != "" && t.Account != f.Account:
		return false
	case len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, t.CategoryID):
		return false
	case f.Tag != "" && !slices.Contains(t.Tags, f.Tag):
		return false
	case f.Reconciled != nil && t.Reconciled != *f.Reconciled:
		return false
	case !f.From.IsZero() && t.Date.Before(f.From):
		return false
	case !f.To.IsZero() && t.Date.After(f.To):
		return false
	case f.Query != "":
		q := strings.ToLower(f.Query)
		for _, field := range []string{t.Notes, t.Vendor, t.Client, strings.Join(t.Tags, " ")} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	}
	return true
}

func matchBudget(f ports.BudgetFilter, b *domain.Budget) bool {
	if !f.StartFrom.IsZero() && b.StartDate.Before(f.StartFrom) {
		return false
	}
	return f.EndTo.IsZero() || !b.EndDate.After(f.EndTo)
}

// store is a tiny ordered in-memory collection shared by the stub repos.
type store[T any] struct {
	rows  map[string]*T
	order []string
	err   error
}

func newStore[T any]() *store[T] {
	return &store[T]{rows: make(map[string]*T)}
}

func (s *store[T]) put(id string, v *T) {
	if _, ok := s.rows[id]; !ok {
		s.order = append(s.order, id)
	}
	clone := *v
	s.rows[id] = &clone
}

func (s *store[T]) get(id string) (*T, error) {
	v, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (s *store[T]) remove(id string) error {
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *store[T]) each(keep func(*T) bool) []*T {
	var out []*T
	for _, id := range s.order {
		v := s.rows[id]
		if keep(v) {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out
}

type stubTransactionRepo struct{ *store[domain.Transaction] }

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{newStore[domain.Transaction]()}
}

func (r *stubTransactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	if r.err != nil {
		return r.err
	}
	r.put(t.ID, t)
	return nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	return r.get(id)
}

func (r *stubTransactionRepo) List(_ context.Context, scope access.Scope, f ports.TransactionFilter) ([]*domain.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.each(func(t *domain.Transaction) bool { return scope.Matches(t.UserID) && matchTransaction(f, t) }), nil
}

func (r *stubTransactionRepo) Update(_ context.Context, t *domain.Transaction) error {
	if _, err := r.get(t.ID); err != nil {
		return err
	}
	r.put(t.ID, t)
	return nil
}

func (r *stubTransactionRepo) Delete(_ context.Context, id string) error {
	return r.remove(id)
}

type stubBudgetRepo struct{ *store[domain.Budget] }

func newStubBudgetRepo() *stubBudgetRepo {
	return &stubBudgetRepo{newStore[domain.Budget]()}
}

func (r *stubBudgetRepo) Create(_ context.Context, b *domain.Budget) error {
	r.put(b.ID, b)
	return nil
}

func (r *stubBudgetRepo) FindByID(_ context.Context, id string) (*domain.Budget, error) {
	return r.get(id)
}

func (r *stubBudgetRepo) List(_ context.Context, scope access.Scope, f ports.BudgetFilter) ([]*domain.Budget, error) {
	return r.each(func(b *domain.Budget) bool { return scope.Matches(b.UserID) && matchBudget(f, b) }), nil
}

func (r *stubBudgetRepo) Update(_ context.Context, b *domain.Budget) error {
	r.put(b.ID, b)
	return nil
}

func (r *stubBudgetRepo) Delete(_ context.Context, id string) error {
	return r.remove(id)
}

type stubClientRepo struct{ *store[domain.Client] }

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{newStore[domain.Client]()}
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	r.put(c.ID, c)
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	return r.get(id)
}

func (r *stubClientRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Client, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.each(func(c *domain.Client) bool { return want[c.ID] }), nil
}

func (r *stubClientRepo) List(_ context.Context, scope access.Scope) ([]*domain.Client, error) {
	return r.each(func(c *domain.Client) bool { return scope.Matches(c.UserID) }), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	r.put(c.ID, c)
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	return r.remove(id)
}

type stubInvoiceRepo struct{ *store[domain.Invoice] }

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{newStore[domain.Invoice]()}
}

func (r *stubInvoiceRepo) numberTaken(inv *domain.Invoice) bool {
	for _, other := range r.rows {
		if other.ID != inv.ID && other.InvoiceNumber == inv.InvoiceNumber {
			return true
		}
	}
	return false
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *domain.Invoice) error {
	if r.numberTaken(inv) {
		return domain.ErrConflict
	}
	r.put(inv.ID, inv)
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id string) (*domain.Invoice, error) {
	return r.get(id)
}

func (r *stubInvoiceRepo) List(_ context.Context, scope access.Scope) ([]*domain.Invoice, error) {
	return r.each(func(inv *domain.Invoice) bool { return scope.Matches(inv.UserID) }), nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *domain.Invoice) error {
	if r.numberTaken(inv) {
		return domain.ErrConflict
	}
	r.put(inv.ID, inv)
	return nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id string) error {
	return r.remove(id)
}

type stubAuditRepo struct {
	records []*domain.AuditRecord
	err     error
}

func (r *stubAuditRepo) Insert(_ context.Context, rec *domain.AuditRecord) error {
	if r.err != nil {
		return r.err
	}
	clone := *rec
	r.records = append(r.records, &clone)
	return nil
}

func (r *stubAuditRepo) Recent(_ context.Context, limit int) ([]*domain.AuditRecord, error) {
	out := append([]*domain.AuditRecord(nil), r.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func ptr[T any](v T) *T {
	return &v
}

var (
	alice   = domain.Identity{UserID: "alice", Role: domain.RoleSalary, Email: "alice@example.com"}
	bob     = domain.Identity{UserID: "bob", Role: domain.RoleSelfEmployed, Email: "bob@example.com"}
	admin   = domain.Identity{UserID: "root", Role: domain.RoleAdmin, Email: "admin@example.com"}
	manager = domain.Identity{UserID: "mgr", Role: domain.RoleClientMgmt, Email: "mgr@example.com"}
)
