// Package domain определяет типизированные ошибки бизнес-уровня.
// Сервисы возвращают эти ошибки (обёрнутыми через fmt.Errorf с %w),
// а HTTP-обработчики сопоставляют их со статусами ответов через errors.Is.
package domain

import (
	"context"
	"errors"
)

var (
	// ErrValidation означает некорректные входные данные (форма или границы значений).
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized означает отсутствие аутентифицированной личности.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden означает, что у вызывающего нет требуемой роли или статуса.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict означает, что у пользователя уже есть открытая заявка
	// или запись с таким уникальным полем уже существует.
	ErrConflict = errors.New("conflict")
	// ErrState означает попытку недопустимого перехода статуса,
	// например повторное решение по уже рассмотренной заявке.
	ErrState = errors.New("illegal state transition")
	// ErrNotFound означает отсутствие запрошенной записи.
	ErrNotFound = errors.New("not found")
	// ErrBackend означает временную или неизвестную ошибку хранилища.
	ErrBackend = errors.New("backend failure")
	// ErrTimeout означает истечение дедлайна операции.
	ErrTimeout = errors.New("operation timed out")
)

// Wrap приводит низкоуровневую ошибку хранилища к доменной таксономии.
// Истёкший дедлайн контекста превращается в ErrTimeout, всё остальное — в ErrBackend.
// Уже типизированные доменные ошибки возвращаются как есть.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrValidation, ErrUnauthorized, ErrForbidden,
		ErrConflict, ErrState, ErrNotFound, ErrBackend, ErrTimeout} {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return errors.Join(ErrBackend, err)
}
