// Package models содержит доменные структуры заявок на премиум-доступ,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Возможные статусы заявки на премиум-доступ.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Возможные решения администратора по заявке.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// PremiumRequest представляет заявку пользователя на премиум-доступ.
// Email и имя пользователя снимаются как снапшот в момент подачи заявки,
// чтобы список заявок не зависел от последующих изменений профиля.
type PremiumRequest struct {
	ID         string     // Уникальный идентификатор заявки
	UserUID    string     // Идентификатор пользователя-владельца
	UserEmail  string     // Email пользователя на момент подачи
	UserName   string     // Имя пользователя на момент подачи
	FundAmount float64    // Заявленная сумма инвестиций
	Exchange   string     // Название биржи
	Status     string     // Статус заявки: pending, approved, rejected
	AdminNotes string     // Комментарий администратора
	CreatedAt  time.Time  // Дата подачи заявки
	UpdatedAt  time.Time  // Дата последнего изменения
	ReviewedAt *time.Time // Дата первого решения администратора
}

// DummyRequest используется для приёма данных новой заявки из JSON-запроса.
// Границы суммы проверяются в бизнес-логике по настройкам приложения.
type DummyRequest struct {
	FundAmount float64 `json:"fund_amount" validate:"required,gt=0"` // Сумма инвестиций (>0)
	Exchange   string  `json:"exchange" validate:"required"`         // Название биржи или свой вариант
}

// DummyDecision используется для приёма решения администратора из JSON-запроса.
type DummyDecision struct {
	Decision   string `json:"decision" validate:"required,oneof=approved rejected"` // approved или rejected
	AdminNotes string `json:"admin_notes,omitempty" validate:"omitempty"`           // Комментарий (опционально)
}

// RequestStats содержит агрегированную статистику заявок для панели администратора.
type RequestStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
