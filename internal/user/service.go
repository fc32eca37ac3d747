package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qbacid/DentorAcademy/internal/auth"
	"github.com/qbacid/DentorAcademy/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const tokenDuration = 24 * time.Hour

type Service interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*UserResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	existing, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(dto.Name),
		Role:         RoleStudent,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(u); err != nil {
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered")
	return s.toResponse(u), nil
}

func (s *service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByEmail(strings.TrimSpace(dto.Email))
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID.String(), u.Role, tokenDuration)
	if err != nil {
		log.WithError(err).Error("Failed to generate token")
		return nil, err
	}

	return &LoginResponse{Token: token, User: *s.toResponse(u)}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return s.toResponse(u), nil
}

func (s *service) toResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
