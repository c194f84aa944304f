package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/middleware/auth"
)

// dummyHash keeps login timing flat when the user does not exist.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	// ForgotPassword returns the plain reset token; only its hash is stored.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (*dto.AuthResponse, error)
	UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) (*dto.AuthResponse, error)
	// Authenticate resolves a bearer token to an active, sanitized user.
	Authenticate(ctx context.Context, token string) (*models.User, error)
	IssueToken(userID string) (string, error)
}

type authService struct {
	userRepo      repository.UserRepository
	tokens        *auth.TokenService
	resetTokenTTL time.Duration
	now           func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService, resetTokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:      userRepo,
		tokens:        tokens,
		resetTokenTTL: resetTokenTTL,
		now:           time.Now,
	}
}

// Register creates an account with the default role and signs it in.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.userRepo.UsernameTaken(ctx, req.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameInUse
	}
	taken, err = s.userRepo.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
		Avatar:   models.DefaultAvatar,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.signedIn(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = auth.VerifyPassword(dummyHash, req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.signedIn(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return user.Sanitized(), nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", notFound(err, ErrEmailNotFound)
	}

	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	expire := s.now().Add(s.resetTokenTTL)
	err = s.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"reset_password_token":  hashResetToken(token),
		"reset_password_expire": expire,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByResetToken(ctx, hashResetToken(req.Token), s.now())
	if err != nil {
		return nil, notFound(err, ErrInvalidResetToken)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	err = s.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash":         hashedPassword,
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	})
	if err != nil {
		return nil, err
	}
	return s.signedIn(user)
}

func (s *authService) UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	if err := auth.VerifyPassword(user.Password, req.CurrentPassword); err != nil {
		return nil, ErrWrongPassword
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"password_hash": hashedPassword}); err != nil {
		return nil, err
	}
	return s.signedIn(user)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user.Sanitized(), nil
}

func (s *authService) IssueToken(userID string) (string, error) {
	return s.tokens.Issue(userID)
}

func (s *authService) signedIn(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: user.Sanitized(), Token: token}, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
