// Package service implements account management and credential-based
// sign-in for the sales team.
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"crm_backend/internal/users/domain"
	"crm_backend/internal/users/password"
	"crm_backend/internal/users/repository"
	"crm_backend/internal/users/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/config"
	"crm_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
)

const msgInvalidCredentials = "invalid credentials"

// Repository is the data access surface the service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateUserParams) (repository.User, error)
	GetByID(ctx context.Context, id int64) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	List(ctx context.Context, params repository.ListUsersParams) ([]repository.User, error)
	SetActive(ctx context.Context, id int64, active bool) (repository.User, error)
}

type Service struct {
	repo Repository
	cfg  config.AuthConfig
}

func New(repo Repository, cfg config.AuthConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Login verifies credentials and issues a signed access token. Inactive
// accounts cannot sign in.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.LoginResponse{}, err
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !user.IsActive {
		return transport.LoginResponse{}, apperr.Forbidden("account is deactivated")
	}

	token, err := s.signAccessToken(user)
	if err != nil {
		return transport.LoginResponse{}, err
	}

	return transport.LoginResponse{
		AccessToken: token,
		User:        transport.ToUserResponse(user),
	}, nil
}

// Create registers a new team member account.
func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	params := repository.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
		PasswordHash: hash,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	user, err := s.repo.Create(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return transport.UserResponse{}, apperr.Conflict("email already registered")
		}
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(user), nil
}

// GetByID retrieves one account.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(user), nil
}

// List returns accounts matching the filters.
func (s *Service) List(ctx context.Context, req transport.ListUsersRequest) ([]transport.UserResponse, error) {
	params := repository.ListUsersParams{IsActive: req.IsActive}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.Valid() {
			return nil, apperr.Validation("invalid role")
		}
		params.Role = &role
	}

	users, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, transport.ToUserResponse(user))
	}
	return out, nil
}

// SetActive toggles an account's active flag.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (transport.UserResponse, error) {
	user, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(user), nil
}

func (s *Service) signAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
