package dto

import (
	"time"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// CreateFolderRequest entrada para crear una carpeta.
type CreateFolderRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	ParentID *string `json:"parent_id,omitempty" validate:"omitempty,min=1"`
}

// UpdateFolderRequest entrada para renombrar o mover una carpeta.
// MoveToRoot deja la carpeta en la raíz; si es false, ParentID nil no cambia el padre.
type UpdateFolderRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ParentID   *string `json:"parent_id,omitempty" validate:"omitempty,min=1"`
	MoveToRoot bool    `json:"move_to_root,omitempty"`
}

// FolderResponse salida de una carpeta.
type FolderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FolderDeleteResponse resultado de borrar una carpeta.
type FolderDeleteResponse struct {
	ID                string `json:"id"`
	RelocatedProducts int64  `json:"relocated_products"`
}

// ToFolderResponse convierte una carpeta a su salida HTTP.
func ToFolderResponse(f *entity.Folder) FolderResponse {
	return FolderResponse{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  f.ParentID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
