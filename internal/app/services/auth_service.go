package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"github.com/yigit/projectdesk/internal/pkg/auth"
)

// ErrInvalidLogin is returned for an unknown email or a wrong password alike
var ErrInvalidLogin = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")

// AuthService handles accounts and authentication
type AuthService struct {
	store      repositories.Store
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(store repositories.Store, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:      store,
		jwtService: jwtService,
		logger:     logger,
	}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates a student or teacher account without a project
func (s *AuthService) RegisterUser(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role", "Role must be student or teacher")
	}

	user := &models.User{
		Name:  strings.TrimSpace(req.Name),
		Email: NormalizeEmail(req.Email),
		Role:  role,
		Phone: strings.TrimSpace(req.Phone),
	}
	if err := requireFields(field{"name", user.Name}, field{"phone", user.Phone}); err != nil {
		return nil, err
	}

	switch role {
	case models.RoleStudent:
		user.RollNumber = strings.TrimSpace(req.RollNumber)
		user.Class = strings.TrimSpace(req.Class)
		if err := requireFields(field{"rollNumber", user.RollNumber}, field{"class", user.Class}); err != nil {
			return nil, err
		}
	case models.RoleTeacher:
		user.Designation = strings.TrimSpace(req.Designation)
		user.EmployeeID = strings.TrimSpace(req.EmployeeID)
		if err := requireFields(field{"designation", user.Designation}, field{"employeeId", user.EmployeeID}); err != nil {
			return nil, err
		}
	}

	if err := s.createUser(ctx, s.store, user, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return s.authResponse(user)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.Users().GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidLogin
	}

	return s.authResponse(user)
}

// UpdateProfile changes the name and phone of the actor. Absent or blank fields are kept.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := s.store.Users().UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// field is a trimmed request value and the JSON name it came from
type field struct {
	name  string
	value string
}

// requireFields reports the first blank field as a validation error
func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return apperrors.NewValidationError(f.name, f.name+" is required")
		}
	}
	return nil
}

// createUser hashes the password and inserts the user through store
func (s *AuthService) createUser(ctx context.Context, store repositories.Store, user *models.User, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	now := models.Now()
	user.ID = models.NewID()
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	return store.Users().Create(ctx, user)
}

// authResponse creates the identity + token response
func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	return &dto.AuthResponse{
		UserResponse: dto.NewUserResponse(user),
		Token:        token,
		ExpiresIn:    expiresIn,
	}, nil
}
