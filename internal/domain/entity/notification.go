package entity

import "time"

// Categorías de notificación.
const (
	NotificationLowStock = "low_stock"
)

// Notification aviso interno mostrado en la campana de la aplicación.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Category  string
	Timestamp time.Time
	Read      bool
}
