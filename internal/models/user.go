// Package models содержит доменную модель пользователя платформы,
// включающую данные учётной записи, роль и признаки премиум-доступа.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Возможные роли пользователя.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Возможные значения премиум-статуса пользователя.
const (
	PremiumStatusNone     = "none"
	PremiumStatusPending  = "pending"
	PremiumStatusActive   = "active"
	PremiumStatusInactive = "inactive"
	PremiumStatusRejected = "rejected"
)

// User представляет зарегистрированного пользователя платформы.
type User struct {
	UID               string     // Уникальный идентификатор пользователя
	Email             string     // Электронная почта (хранится в нижнем регистре)
	Username          string     // Имя пользователя (уникальное)
	PasswordHash      string     // Хэш пароля пользователя
	Role              string     // Роль пользователя, admin или user
	VIPAccess         bool       // Признак премиум-доступа, выставляется только админом
	PremiumStatus     string     // Статус премиум-доступа: none, pending, active, inactive, rejected
	PremiumApprovedAt *time.Time // Дата одобрения премиум-доступа
	CreatedAt         time.Time  // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`    // Пароль
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required"` // Имя пользователя
	Password string `json:"password" validate:"required"` // Пароль
}
