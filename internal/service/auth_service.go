package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pedrorichil/aprovaia/internal/middleware"
	"github.com/pedrorichil/aprovaia/internal/models"
	"github.com/pedrorichil/aprovaia/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

type AuthService struct {
	Users     *repository.UserRepository
	JWTSecret string
}

func NewAuthService(users *repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{Users: users, JWTSecret: jwtSecret}
}

type RegisterInput struct {
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required,min=8"`
	FullName   string          `json:"full_name" binding:"required"`
	Role       models.UserRole `json:"role" binding:"required"`
	TenantName string          `json:"tenant_name" binding:"required"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	existing, err := s.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	tenant, err := s.Users.FindOrCreateTenant(ctx, input.TenantName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		TenantID:     tenant.ID,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Profile: models.Profile{
			ID:       uuid.NewString(),
			FullName: input.FullName,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns a signed access token together
// with the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(user, s.JWTSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
