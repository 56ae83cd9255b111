package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.FolderRepository = (*FolderRepo)(nil)

// FolderRepo implementación de FolderRepository sobre PostgreSQL.
type FolderRepo struct {
	q Querier
}

// NewFolderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFolderRepository(q Querier) *FolderRepo {
	return &FolderRepo{q: q}
}

func (r *FolderRepo) Create(ctx context.Context, f *entity.Folder) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO folders (id, name, parent_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Name, f.ParentID, f.CreatedAt, f.UpdatedAt)
	return wrap("create folder", err)
}

func (r *FolderRepo) GetByID(ctx context.Context, id string) (*entity.Folder, error) {
	var f entity.Folder
	err := r.q.QueryRow(ctx,
		`SELECT id, name, parent_id, created_at, updated_at FROM folders WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.ParentID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get folder", err)
	}
	return &f, nil
}

func (r *FolderRepo) Update(ctx context.Context, f *entity.Folder) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE folders SET name = $2, parent_id = $3, updated_at = $4 WHERE id = $1`,
		f.ID, f.Name, f.ParentID, f.UpdatedAt)
	if err != nil {
		return wrap("update folder", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FolderRepo) List(ctx context.Context) ([]*entity.Folder, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, parent_id, created_at, updated_at FROM folders ORDER BY name, id`)
	if err != nil {
		return nil, wrap("list folders", err)
	}
	defer rows.Close()
	list := []*entity.Folder{}
	for rows.Next() {
		var f entity.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.ParentID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, wrap("scan folder", err)
		}
		list = append(list, &f)
	}
	return list, wrap("list folders", rows.Err())
}

func (r *FolderRepo) Reparent(ctx context.Context, folderID string, newParentID *string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE folders SET parent_id = $2, updated_at = now() WHERE parent_id = $1`, folderID, newParentID)
	return wrap("reparent folders", err)
}

func (r *FolderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return wrap("delete folder", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
