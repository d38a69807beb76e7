package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellergrid/marketplace/internal/hash"
	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/repo"
	"github.com/sellergrid/marketplace/internal/transport"
)

const accessTokenTTL = time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", ErrValidation)
	}

	_, err := s.Repo.UserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user already exists: %w", ErrValidation)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("invalid email or password: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid email or password: %w", ErrInvalidCredentials)
	}

	return s.issueToken(user)
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (*AuthResult, error) {
	exp := time.Now().Add(accessTokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
