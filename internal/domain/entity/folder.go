package entity

import "time"

// Folder agrupa productos del almacén (jerárquica opcional).
type Folder struct {
	ID        string
	Name      string
	ParentID  *string // nil si es raíz
	CreatedAt time.Time
	UpdatedAt time.Time
}
