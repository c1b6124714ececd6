package user

import (
	"context"

	"vietcart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password string, fullName *string) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	GetProfile(ctx context.Context, userID int64) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, email, password string, fullName *string) (*User, string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		Email:           email,
		PasswordHash:    hash,
		FullName:        fullName,
		Role:            RoleUser,
		MembershipLevel: MembershipMember,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		log.Warn("failed to register user", zap.Error(err))
		return nil, "", err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, "", err
	}

	log.Info("user registered", zap.Int64("user_id", u.ID))
	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !CheckPasswordHash(password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
