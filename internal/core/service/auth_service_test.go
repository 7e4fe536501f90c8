package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrConflict
	}
	r.seq++
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "user-" + string(rune('0'+r.seq))
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), "Alice@Example.com ", "pass123", domain.RoleSelfEmployed)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleSelfEmployed {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "", "pass", domain.RoleSalary); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass", "wizard"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmailConflicts(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, _ = svc.Register(context.Background(), "bob@example.com", "pass", domain.RoleSalary)
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass2", domain.RoleViewer); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_Login_IssuesVerifiableToken(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "carol@example.com", "s3cret", domain.RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user == nil {
		t.Fatalf("expected token and user")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleAdmin) || claims["user_id"] != user.ID || claims["email"] != "carol@example.com" {
		t.Fatalf("unexpected claims: %v", claims)
	}

	id, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UserID != user.ID || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_NoUserExistenceLeak(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass", domain.RoleSalary)

	_, _, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, unknown := svc.Login(context.Background(), "ghost@example.com", "pass")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	sign := func(secret string, method jwt.SigningMethod, claims jwt.Claims) string {
		var key interface{} = []byte(secret)
		if method == jwt.SigningMethodNone {
			key = jwt.UnsafeAllowNoneSignatureType
		}
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := identityClaims{
		UserID: "u1", Role: domain.RoleAdmin, Email: "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExp := valid
	noExp.ExpiresAt = nil
	noUser := valid
	noUser.UserID = ""

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": sign("other", jwt.SigningMethodHS256, valid),
		"alg none":     sign("", jwt.SigningMethodNone, valid),
		"expired":      sign("secret", jwt.SigningMethodHS256, expired),
		"no expiry":    sign("secret", jwt.SigningMethodHS256, noExp),
		"no user id":   sign("secret", jwt.SigningMethodHS256, noUser),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Authenticate(token); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthService_Seed_OnlyWhenEmpty(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	accounts := []SeedAccount{
		{Email: "admin@example.com", Password: "admin123", Role: domain.RoleAdmin},
		{Email: "acct@example.com", Password: "acct123", Role: domain.RoleAccountant},
	}
	if err := svc.Seed(context.Background(), accounts); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(repo.users))
	}

	if err := svc.Seed(context.Background(), DefaultSeedAccounts); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(repo.users) != 2 {
		t.Fatalf("seed must be a no-op on a populated store, got %d users", len(repo.users))
	}
}
