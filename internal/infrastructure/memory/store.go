// Package memory implementa los repositorios y el TxRunner en memoria (STORE_DRIVER=memory).
// Las escrituras de una transacción se acumulan y se aplican juntas al confirmar, con el
// mismo compare-and-swap de versión que la implementación PostgreSQL. Las lecturas dentro
// de una transacción ven el estado confirmado.
package memory

import (
	"context"
	"sync"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

type state struct {
	records       map[string]*entity.StockRecord
	movements     map[string]*entity.MovementEntry
	folders       map[string]*entity.Folder
	notifications map[string]*entity.Notification
	seq           int64
}

func (s state) clone() state {
	next := state{
		records:       make(map[string]*entity.StockRecord, len(s.records)),
		movements:     make(map[string]*entity.MovementEntry, len(s.movements)),
		folders:       make(map[string]*entity.Folder, len(s.folders)),
		notifications: make(map[string]*entity.Notification, len(s.notifications)),
		seq:           s.seq,
	}
	for k, v := range s.records {
		next.records[k] = v
	}
	for k, v := range s.movements {
		next.movements[k] = v
	}
	for k, v := range s.folders {
		next.folders[k] = v
	}
	for k, v := range s.notifications {
		next.notifications[k] = v
	}
	return next
}

type op func(*state) error

// Store almacén en memoria compartido por todos los repositorios.
type Store struct {
	mu sync.RWMutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: state{}.clone()}
}

// tx acumula las escrituras de una transacción.
type tx struct {
	ops []op
}

// exec aplica op de inmediato o la acumula si hay transacción.
func (s *Store) exec(t *tx, o op) error {
	if t != nil {
		t.ops = append(t.ops, o)
		return nil
	}
	return s.commit([]op{o})
}

// commit aplica todas las operaciones sobre una copia y la publica solo si ninguna falla.
func (s *Store) commit(ops []op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.st.clone()
	for _, o := range ops {
		if err := o(&next); err != nil {
			return err
		}
	}
	s.st = next
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.st)
}

// Records repositorio de registros fuera de transacción.
func (s *Store) Records() *RecordRepo { return &RecordRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Folders repositorio de carpetas fuera de transacción.
func (s *Store) Folders() *FolderRepo { return &FolderRepo{s: s} }

// Notifications repositorio del buzón.
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s: s} }

// TxRunner implementa los TxRunner de aplicación sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run ejecuta fn con repositorios transaccionales de movimientos y registros.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRecordRepository,
) error) error {
	t := &tx{}
	if err := fn(ctx, &MovementRepo{s: r.s, tx: t}, &RecordRepo{s: r.s, tx: t}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.commit(t.ops)
}

// RunCatalog ejecuta fn con repositorios transaccionales de carpetas y registros.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	ctx context.Context,
	folderRepo repository.FolderRepository,
	stockRepo repository.StockRecordRepository,
) error) error {
	t := &tx{}
	if err := fn(ctx, &FolderRepo{s: r.s, tx: t}, &RecordRepo{s: r.s, tx: t}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.commit(t.ops)
}
