package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/users/domain"
	"crm_backend/internal/users/password"
	"crm_backend/internal/users/repository"
	"crm_backend/internal/users/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
)

type fakeRepo struct {
	user      repository.User
	getErr    error
	createErr error
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateUserParams) (repository.User, error) {
	if f.createErr != nil {
		return repository.User{}, f.createErr
	}
	return repository.User{ID: 1, Name: params.Name, Email: params.Email, Role: params.Role, IsActive: true}, nil
}

func (f *fakeRepo) GetByID(context.Context, int64) (repository.User, error) {
	return f.user, f.getErr
}

func (f *fakeRepo) GetByEmail(context.Context, string) (repository.User, error) {
	if f.getErr != nil {
		return repository.User{}, f.getErr
	}
	return f.user, nil
}

func (f *fakeRepo) List(context.Context, repository.ListUsersParams) ([]repository.User, error) {
	return []repository.User{f.user}, nil
}

func (f *fakeRepo) SetActive(_ context.Context, _ int64, active bool) (repository.User, error) {
	f.user.IsActive = active
	return f.user, f.getErr
}

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret: "test-secret",
		AccessTokenTTL:  15 * time.Minute,
	}
}

func activeUser(t *testing.T) repository.User {
	t.Helper()
	hash, err := password.Hash("correct-horse")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return repository.User{
		ID:           7,
		Name:         "Asha",
		Email:        "asha@example.com",
		Role:         domain.RoleSales,
		PasswordHash: hash,
		IsActive:     true,
	}
}

func TestLoginIssuesTokenWithSubjectAndRole(t *testing.T) {
	repo := &fakeRepo{user: activeUser(t)}
	svc := New(repo, testConfig())

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "asha@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("expected a valid signed token, got %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != "7" {
		t.Fatalf("expected sub claim \"7\", got %v", claims["sub"])
	}
	if claims["role"] != string(domain.RoleSales) {
		t.Fatalf("expected role claim %q, got %v", domain.RoleSales, claims["role"])
	}
	if resp.User.Email != "asha@example.com" {
		t.Fatalf("expected user snapshot in response, got %+v", resp.User)
	}
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	repo := &fakeRepo{user: activeUser(t)}
	svc := New(repo, testConfig())

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLoginUnknownEmailIsUnauthorizedNotNotFound(t *testing.T) {
	repo := &fakeRepo{getErr: repository.ErrNotFound}
	svc := New(repo, testConfig())

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLoginDeactivatedAccountIsForbidden(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	repo := &fakeRepo{user: user}
	svc := New(repo, testConfig())

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "asha@example.com",
		Password: "correct-horse",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestCreateDuplicateEmailIsConflict(t *testing.T) {
	repo := &fakeRepo{createErr: repository.ErrEmailTaken}
	svc := New(repo, testConfig())

	_, err := svc.Create(context.Background(), transport.CreateUserRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Role:     "Sales",
		Password: "correct-horse",
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestListRejectsInvalidRole(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, testConfig())

	role := "Wizard"
	_, err := svc.List(context.Background(), transport.ListUsersRequest{Role: &role})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
