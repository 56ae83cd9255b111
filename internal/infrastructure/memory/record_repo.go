package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*RecordRepo)(nil)

// RecordRepo implementa StockRecordRepository en memoria.
type RecordRepo struct {
	s  *Store
	tx *tx
}

func (r *RecordRepo) Create(_ context.Context, record *entity.StockRecord) error {
	c := record.Clone()
	return r.s.exec(r.tx, func(st *state) error {
		if _, ok := st.records[c.ID]; ok {
			return domain.ErrDuplicate
		}
		if err := folderExists(st, c.FolderID); err != nil {
			return err
		}
		st.records[c.ID] = c
		return nil
	})
}

func (r *RecordRepo) GetByID(_ context.Context, id string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	r.s.read(func(st *state) {
		out = st.records[id].Clone()
	})
	return out, nil
}

func (r *RecordRepo) UpdateVersioned(_ context.Context, record *entity.StockRecord, expectedVersion int64) error {
	c := record.Clone()
	return r.s.exec(r.tx, func(st *state) error {
		cur, ok := st.records[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Version != expectedVersion {
			return domain.ErrConcurrentModification
		}
		if err := folderExists(st, c.FolderID); err != nil {
			return err
		}
		st.records[c.ID] = c
		return nil
	})
}

func (r *RecordRepo) List(_ context.Context, f repository.StockRecordFilter) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	r.s.read(func(st *state) {
		for _, rec := range st.records {
			if matches(rec, f) {
				out = append(out, rec.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *RecordRepo) ClearFolder(_ context.Context, folderID string) (int64, error) {
	var n int64
	r.s.read(func(st *state) {
		for _, rec := range st.records {
			if rec.FolderID != nil && *rec.FolderID == folderID {
				n++
			}
		}
	})
	err := r.s.exec(r.tx, func(st *state) error {
		for id, rec := range st.records {
			if rec.FolderID != nil && *rec.FolderID == folderID {
				c := rec.Clone()
				c.FolderID = nil
				c.Version++
				st.records[id] = c
			}
		}
		return nil
	})
	return n, err
}

func (r *RecordRepo) Delete(_ context.Context, id string) error {
	return r.s.exec(r.tx, func(st *state) error {
		if _, ok := st.records[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.records, id)
		return nil
	})
}

// folderExists se evalúa al confirmar, como la FK folder_id de PostgreSQL: una carpeta
// borrada por otra transacción ya confirmada hace fallar la escritura.
func folderExists(st *state, folderID *string) error {
	if folderID == nil {
		return nil
	}
	if _, ok := st.folders[*folderID]; !ok {
		return fmt.Errorf("carpeta %s: %w", *folderID, domain.ErrNotFound)
	}
	return nil
}

func matches(rec *entity.StockRecord, f repository.StockRecordFilter) bool {
	if f.WarehouseID != "" && rec.WarehouseID != f.WarehouseID {
		return false
	}
	if f.Unfiled && rec.FolderID != nil {
		return false
	}
	if f.FolderID != nil && (rec.FolderID == nil || *rec.FolderID != *f.FolderID) {
		return false
	}
	if f.LowStockOnly && !rec.IsLowStock() {
		return false
	}
	return true
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	if items == nil {
		return []T{}
	}
	return items
}
