package memory

import (
	"context"
	"sort"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.FolderRepository = (*FolderRepo)(nil)

// FolderRepo implementa FolderRepository en memoria.
type FolderRepo struct {
	s  *Store
	tx *tx
}

func cloneFolder(f *entity.Folder) *entity.Folder {
	if f == nil {
		return nil
	}
	c := *f
	if f.ParentID != nil {
		p := *f.ParentID
		c.ParentID = &p
	}
	return &c
}

func (r *FolderRepo) Create(_ context.Context, f *entity.Folder) error {
	c := cloneFolder(f)
	return r.s.exec(r.tx, func(st *state) error {
		if _, ok := st.folders[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.folders[c.ID] = c
		return nil
	})
}

func (r *FolderRepo) GetByID(_ context.Context, id string) (*entity.Folder, error) {
	var out *entity.Folder
	r.s.read(func(st *state) { out = cloneFolder(st.folders[id]) })
	return out, nil
}

func (r *FolderRepo) Update(_ context.Context, f *entity.Folder) error {
	c := cloneFolder(f)
	return r.s.exec(r.tx, func(st *state) error {
		if _, ok := st.folders[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.folders[c.ID] = c
		return nil
	})
}

func (r *FolderRepo) List(_ context.Context) ([]*entity.Folder, error) {
	out := []*entity.Folder{}
	r.s.read(func(st *state) {
		for _, f := range st.folders {
			out = append(out, cloneFolder(f))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FolderRepo) Reparent(_ context.Context, folderID string, newParentID *string) error {
	return r.s.exec(r.tx, func(st *state) error {
		for id, f := range st.folders {
			if f.ParentID != nil && *f.ParentID == folderID {
				c := cloneFolder(f)
				if newParentID == nil {
					c.ParentID = nil
				} else {
					p := *newParentID
					c.ParentID = &p
				}
				st.folders[id] = c
			}
		}
		return nil
	})
}

func (r *FolderRepo) Delete(_ context.Context, id string) error {
	return r.s.exec(r.tx, func(st *state) error {
		if _, ok := st.folders[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.folders, id)
		return nil
	})
}
