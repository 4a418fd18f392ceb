package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fuelmate-api/auth"
	"fuelmate-api/models"
	"fuelmate-api/store"

	"go.uber.org/zap"
)

type RegisterInput struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Phone    string          `json:"phone"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=customer driver"`
	models.DriverDetails
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is what register and login hand back to the client
type AuthResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	users                 store.UserRepository
	tokens                *auth.TokenIssuer
	requireDriverApproval bool
	log                   *zap.Logger
}

func NewAuthService(users store.UserRepository, tokens *auth.TokenIssuer, requireDriverApproval bool, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, requireDriverApproval: requireDriverApproval, log: log}
}

// Register creates a customer or driver account. Admin accounts are only created by EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         role,
		Status:       models.UserActive,
	}
	if role == models.RoleDriver {
		user.ApplyDriverDetails(in.DriverDetails)
		if s.requireDriverApproval {
			user.Status = models.UserPending
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Identify resolves a bearer token to the current user record
func (s *AuthService) Identify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no token", ErrUnauthenticated)
	}
	userID, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: token failed", ErrUnauthenticated)
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not found", ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the admin account if no user holds the email yet.
// It reports whether a new account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			s.log.Warn("admin seed email belongs to a non-admin account", zap.String("user_id", existing.ID))
		}
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	if len(password) < 6 {
		return false, fmt.Errorf("%w: admin password must be at least 6 characters", ErrValidation)
	}
	if err := checkPasswordLength(password); err != nil {
		return false, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.UserActive,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// checkPasswordLength counts bytes, the unit bcrypt limits
func checkPasswordLength(pw string) error {
	if len(pw) > auth.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, auth.MaxPasswordBytes)
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
