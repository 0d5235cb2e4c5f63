// Package models содержит структуру события решения по заявке,
// публикуемого в очередь уведомлений.
package models

// DecisionInfo описывает событие решения администратора по заявке.
// Публикуется в RabbitMQ и потребляется сервисом отправки писем.
type DecisionInfo struct {
	UserEmail  string `json:"user_email"`  // Email получателя уведомления
	UserName   string `json:"user_name"`   // Имя пользователя
	Status     string `json:"status"`      // Итоговый статус заявки: approved или rejected
	AdminNotes string `json:"admin_notes"` // Комментарий администратора
}
