package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoicegen-backend/logger"
	"invoicegen-backend/models"
	"invoicegen-backend/store"
	"invoicegen-backend/utils"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput follows the same nil-keeps-value rule as invoice updates.
type UpdateProfileInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	BusinessName *string `json:"businessName"`
	Address      *string `json:"address"`
	PhoneNumber  *string `json:"phoneNumber"`
}

// AuthResult is a user together with a freshly issued bearer token.
type AuthResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	store      store.Store
	tokens     *utils.TokenManager
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(s store.Store, tokens *utils.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{
		store:      s,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        logger.WithComponent("auth"),
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, validationError("Please add all fields")
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, validationError("User already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internalError("Failed to register user", err)
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, internalError("Failed to register user", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, validationError("User already exists")
		}
		s.log.Error().Err(err).Msg("create user failed")
		return nil, internalError("Failed to register user", err)
	}
	s.log.Info().Str("user_id", user.ID).Msg("user registered")

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, validationError("Please add all fields")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationError("Invalid credentials")
		}
		return nil, internalError("Failed to log in", err)
	}
	if !utils.CheckPasswordHash(in.Password, user.Password) {
		return nil, validationError("Invalid credentials")
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, internalError("Failed to fetch user", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationError("Name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, validationError("Email cannot be empty")
		}
		user.Email = email
	}
	if in.BusinessName != nil {
		user.BusinessName = *in.BusinessName
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.PhoneNumber != nil {
		if *in.PhoneNumber != "" && !utils.ValidatePhone(*in.PhoneNumber) {
			return nil, validationError("Invalid phone number")
		}
		user.PhoneNumber = *in.PhoneNumber
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, validationError("Email already in use")
		case errors.Is(err, store.ErrNotFound):
			return nil, notFoundError("User not found")
		}
		s.log.Error().Err(err).Str("user_id", userID).Msg("update profile failed")
		return nil, internalError("Failed to update profile", err)
	}
	return user, nil
}

// UserExists backs the auth middleware's check that a token's subject
// still exists.
func (s *AuthService) UserExists(ctx context.Context, userID string) (bool, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, internalError("Failed to generate token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
