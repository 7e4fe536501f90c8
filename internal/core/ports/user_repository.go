package ports

import (
	"context"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Create returns
// domain.ErrConflict when the email is already registered.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
