package dto

import (
	"time"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// NotificationResponse salida de una notificación del buzón.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// ToNotificationResponse convierte una notificación a su salida HTTP.
func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		Timestamp: n.Timestamp,
		Read:      n.Read,
	}
}
