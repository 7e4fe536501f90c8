package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

const defaultTokenTTL = 2 * time.Hour

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// identityClaims is the signed payload carried by every bearer token.
type identityClaims struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	Email  string      `json:"email"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || role == "" {
		return nil, fmt.Errorf("%w: email, password, role required", domain.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email_exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login returns domain.ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate verifies signature and expiry and returns the identity claim.
func (s *AuthService) Authenticate(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	if claims.UserID == "" || claims.Role == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	return domain.Identity{UserID: claims.UserID, Role: claims.Role, Email: claims.Email}, nil
}

// SeedAccount is a sample user created on an empty database.
type SeedAccount struct {
	Email    string
	Password string
	Role     domain.Role
}

// DefaultSeedAccounts are the sample users provisioned by Seed.
var DefaultSeedAccounts = []SeedAccount{
	{Email: "admin@example.com", Password: "admin123", Role: domain.RoleAdmin},
	{Email: "cm_test@example.com", Password: "test_cm123", Role: domain.RoleClientMgmt},
	{Email: "salary@example.com", Password: "salary123", Role: domain.RoleSalary},
	{Email: "self@example.com", Password: "self123", Role: domain.RoleSelfEmployed},
	{Email: "acct@example.com", Password: "acct123", Role: domain.RoleAccountant},
}

// Seed creates accounts only when no user exists yet.
func (s *AuthService) Seed(ctx context.Context, accounts []SeedAccount) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if n > 0 {
		s.logger.Debug().Int64("users", n).Msg("users already exist, skipping seed")
		return nil
	}
	for _, a := range accounts {
		if _, err := s.Register(ctx, a.Email, a.Password, a.Role); err != nil {
			return fmt.Errorf("seed user %s: %w", a.Email, err)
		}
	}
	s.logger.Info().Int("count", len(accounts)).Msg("seeded sample users")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := identityClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
