package ports

import (
	"context"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

// Authenticator verifies a bearer credential and returns its identity claim.
type Authenticator interface {
	Authenticate(token string) (domain.Identity, error)
}

type AuthService interface {
	Authenticator
	Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
