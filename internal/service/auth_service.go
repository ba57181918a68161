package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dom/blog-api/internal/auth"
	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = domain.Unauthorized("Invalid credentials")
	ErrUserExists         = domain.Conflict("User already exists")
	ErrInvalidRefresh     = domain.Unauthorized("Invalid refresh token")
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
	hasher   *auth.PasswordHasher
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer, hasher *auth.PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
	}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.Validation("All fields are required")
	}

	existing, err := s.userRepo.FindByEmailOrUsername(ctx, input.Email, input.Username)
	if err == nil && existing != nil {
		return nil, ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Internal(fmt.Errorf("check existing user: %w", err))
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         domain.DefaultRole,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, domain.Internal(fmt.Errorf("create user: %w", err))
	}

	return user, nil
}

// Login fails identically for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" {
		return nil, domain.Validation("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.hasher.CompareDummy(input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, domain.Internal(fmt.Errorf("get user by email: %w", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Refresh mints a new pair from a valid refresh token. The presented token
// is not revoked and stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized("Refresh token missing")
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, domain.Internal(fmt.Errorf("get user by id: %w", err))
	}

	return s.issue(user)
}

// Authenticate resolves an access token to the owning user's profile.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, domain.Unauthorized("Invalid or expired access token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Unauthorized("Invalid access token")
		}
		return nil, domain.Internal(fmt.Errorf("get user by id: %w", err))
	}

	return user.Profile(), nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Internal(fmt.Errorf("get user by id: %w", err))
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("ERROR [auth.issue] failed to generate tokens: %v", err)
		return nil, domain.Internal(fmt.Errorf("generate tokens: %w", err))
	}

	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
