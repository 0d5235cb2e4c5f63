// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей, заявок на премиум-доступ и вебинаров. Предоставляет
// методы создания, чтения, обновления и удаления записей, а также
// транзакционное применение решения администратора по заявке.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, заявками и вебинарами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady() error {
	var exists bool
	err := s.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'premium_requests'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table premium_requests missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation сообщает, нарушено ли уникальное ограничение.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isInvalidUUID сообщает, отклонил ли Postgres значение как некорректный UUID.
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}

// mapRowError переводит sql.ErrNoRows в доменную ошибку отсутствия записи.
// Некорректный UUID в качестве идентификатора означает, что такой записи
// заведомо нет, и отображается так же.
func mapRowError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
