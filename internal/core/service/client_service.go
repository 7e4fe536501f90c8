package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// ClientService manages the billing contacts invoices are raised against.
type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger, now: time.Now}
}

func (s *ClientService) List(ctx context.Context, id domain.Identity) ([]*domain.Client, error) {
	return s.repo.List(ctx, access.ScopeFor(access.ResourceClients, id))
}

func (s *ClientService) Get(ctx context.Context, id domain.Identity, clientID string) (*domain.Client, error) {
	return s.owned(ctx, id, clientID)
}

func (s *ClientService) Create(ctx context.Context, id domain.Identity, in ports.ClientInput) (*domain.Client, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	c := &domain.Client{
		ID:        newID(),
		UserID:    id.UserID,
		Name:      *in.Name,
		Email:     pick(in.Email, ""),
		Phone:     pick(in.Phone, ""),
		Address:   pick(in.Address, ""),
		GSTIN:     pick(in.GSTIN, ""),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.logger.Info().Str("client_id", c.ID).Str("user_id", id.UserID).Msg("client created")
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, id domain.Identity, clientID string, in ports.ClientInput) (*domain.Client, error) {
	c, err := s.owned(ctx, id, clientID)
	if err != nil {
		return nil, err
	}

	c.Name = pickText(in.Name, c.Name)
	c.Email = pick(in.Email, c.Email)
	c.Phone = pick(in.Phone, c.Phone)
	c.Address = pick(in.Address, c.Address)
	c.GSTIN = pick(in.GSTIN, c.GSTIN)

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, id domain.Identity, clientID string) (*domain.Client, error) {
	c, err := s.owned(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, clientID); err != nil {
		return nil, fmt.Errorf("delete client: %w", err)
	}
	return c, nil
}

func (s *ClientService) owned(ctx context.Context, id domain.Identity, clientID string) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(access.ResourceClients, id, c.UserID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}
