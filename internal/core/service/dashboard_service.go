package service

import (
	"context"
	"math"
	"time"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

const day = 24 * time.Hour

// DashboardService builds the caller's financial snapshot.
type DashboardService struct {
	transactions ports.TransactionRepository
	budgets      ports.BudgetRepository
	now          func() time.Time
}

func NewDashboardService(transactions ports.TransactionRepository, budgets ports.BudgetRepository) *DashboardService {
	return &DashboardService{transactions: transactions, budgets: budgets, now: time.Now}
}

// Snapshot recomputes the dashboard from the caller's visible rows on every
// call. Budget usage only counts expenses owned by the budget's owner.
func (s *DashboardService) Snapshot(ctx context.Context, id domain.Identity) (*ports.Snapshot, error) {
	txs, err := s.transactions.List(ctx, access.ScopeFor(access.ResourceTransactions, id), ports.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgets.List(ctx, access.ScopeFor(access.ResourceBudgets, id), ports.BudgetFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	since30 := now.Add(-30 * day)
	since90 := now.Add(-90 * day)

	snap := &ports.Snapshot{Budgets: make([]ports.BudgetProgress, 0, len(budgets))}
	for _, t := range txs {
		v := t.Signed()
		snap.Balance += v
		if !t.Date.Before(since30) {
			snap.CashFlow30d += v
		}
		if !t.Date.Before(since90) {
			snap.CashFlow90d += v
		}
		if t.Type == domain.TypeExpense && t.Date.After(now) {
			snap.UpcomingBills++
		}
	}

	for _, b := range budgets {
		var used float64
		for _, t := range txs {
			if t.UserID == b.UserID && t.Type == domain.TypeExpense && t.CategoryID == b.CategoryID && b.Covers(t.Date) {
				used += t.Amount
			}
		}
		snap.Budgets = append(snap.Budgets, ports.BudgetProgress{Budget: b, Used: used, Progress: Progress(used, b.Target)})
	}
	return snap, nil
}

// Progress is min(100, round(used/target×100)), or 0 when target is not
// positive.
func Progress(used, target float64) int {
	if target <= 0 {
		return 0
	}
	p := math.Round(used / target * 100)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return int(p)
}
