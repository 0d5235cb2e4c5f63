// Package auth содержит логику бизнес-уровня для регистрации,
// входа и валидации JWT пользователей платформы.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-hub/internal/lib/password"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля,
// дефолтной ролью user и без премиум-доступа.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:         strings.ToLower(email),
		Username:      username,
		PasswordHash:  hashed,
		Role:          models.RoleUser, // дефолтная роль при регистрации
		VIPAccess:     false,
		PremiumStatus: models.PremiumStatusNone,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", domain.Wrap(err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}, nil
}
