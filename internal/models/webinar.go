// Package models содержит модель вебинара — обучающего контента,
// доступного пользователям с активным премиум-доступом.
package models

import "time"

// Webinar представляет запланированный или прошедший вебинар.
type Webinar struct {
	ID              string    // Уникальный идентификатор вебинара
	Title           string    // Название
	Speaker         string    // Ведущий
	Description     string    // Описание
	Date            time.Time // Дата и время начала
	DurationMinutes int       // Продолжительность в минутах
	Link            string    // Ссылка на трансляцию
	CreatedAt       time.Time // Дата создания записи
}

// DummyWebinar используется для приёма данных вебинара из JSON-запроса.
// Дата приходит строкой в формате RFC3339 и парсится в бизнес-логике.
type DummyWebinar struct {
	Title           string `json:"title" validate:"required"`                    // Название
	Speaker         string `json:"speaker" validate:"required"`                  // Ведущий
	Description     string `json:"description,omitempty" validate:"omitempty"`   // Описание
	Date            string `json:"date" validate:"required"`                     // Дата начала, RFC3339
	DurationMinutes int    `json:"duration_minutes,omitempty" validate:"gte=0"`  // Продолжительность
	Link            string `json:"link,omitempty" validate:"omitempty,url"`      // Ссылка на трансляцию
}
