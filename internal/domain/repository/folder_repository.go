package repository

import (
	"context"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// FolderRepository define el puerto de persistencia para Folder (DIP).
type FolderRepository interface {
	Create(ctx context.Context, folder *entity.Folder) error
	GetByID(ctx context.Context, id string) (*entity.Folder, error)
	Update(ctx context.Context, folder *entity.Folder) error
	List(ctx context.Context) ([]*entity.Folder, error)
	// Reparent mueve los hijos directos de folderID a newParentID (nil = raíz).
	Reparent(ctx context.Context, folderID string, newParentID *string) error
	Delete(ctx context.Context, id string) error
}
