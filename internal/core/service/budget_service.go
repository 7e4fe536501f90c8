package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// BudgetService manages spending targets scoped to their owner.
type BudgetService struct {
	repo   ports.BudgetRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewBudgetService(repo ports.BudgetRepository, logger zerolog.Logger) *BudgetService {
	return &BudgetService{repo: repo, logger: logger, now: time.Now}
}

func (s *BudgetService) List(ctx context.Context, id domain.Identity) ([]*domain.Budget, error) {
	return s.repo.List(ctx, access.ScopeFor(access.ResourceBudgets, id), ports.BudgetFilter{})
}

// Create requires a category and both window bounds; target defaults to 0.
func (s *BudgetService) Create(ctx context.Context, id domain.Identity, in ports.BudgetInput) (*domain.Budget, error) {
	if in.CategoryID == nil || *in.CategoryID == "" || in.StartDate == nil || in.EndDate == nil {
		return nil, fmt.Errorf("%w: category_id, start_date and end_date are required", domain.ErrValidation)
	}

	b := &domain.Budget{
		ID:         newID(),
		UserID:     id.UserID,
		CategoryID: *in.CategoryID,
		Target:     pick(in.Target, 0),
		StartDate:  in.StartDate.UTC(),
		EndDate:    in.EndDate.UTC(),
		Notes:      pick(in.Notes, ""),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	s.logger.Info().Str("budget_id", b.ID).Str("user_id", id.UserID).Msg("budget created")
	return b, nil
}

func (s *BudgetService) Update(ctx context.Context, id domain.Identity, budgetID string, in ports.BudgetInput) (*domain.Budget, error) {
	b, err := s.owned(ctx, id, budgetID)
	if err != nil {
		return nil, err
	}

	b.CategoryID = pickText(in.CategoryID, b.CategoryID)
	b.Target = pick(in.Target, b.Target)
	if in.StartDate != nil {
		b.StartDate = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		b.EndDate = in.EndDate.UTC()
	}
	b.Notes = pick(in.Notes, b.Notes)

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, id domain.Identity, budgetID string) (*domain.Budget, error) {
	b, err := s.owned(ctx, id, budgetID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, budgetID); err != nil {
		return nil, fmt.Errorf("delete budget: %w", err)
	}
	return b, nil
}

func (s *BudgetService) owned(ctx context.Context, id domain.Identity, budgetID string) (*domain.Budget, error) {
	b, err := s.repo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(access.ResourceBudgets, id, b.UserID) {
		return nil, domain.ErrForbidden
	}
	return b, nil
}
