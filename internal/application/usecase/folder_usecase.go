package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn en una transacción con carpetas y registros atados a ella.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		ctx context.Context,
		folderRepo repository.FolderRepository,
		stockRepo repository.StockRecordRepository,
	) error) error
}

// FolderUseCase casos de uso de carpetas del catálogo.
type FolderUseCase struct {
	tx   CatalogTxRunner
	repo repository.FolderRepository
	now  func() time.Time
}

// NewFolderUseCase construye el caso de uso.
func NewFolderUseCase(tx CatalogTxRunner, repo repository.FolderRepository) *FolderUseCase {
	return &FolderUseCase{tx: tx, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea una carpeta; el padre, si se indica, debe existir.
func (uc *FolderUseCase) Create(ctx context.Context, in dto.CreateFolderRequest) (*dto.FolderResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentID != nil {
		if err := uc.mustExist(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}
	now := uc.now()
	f := &entity.Folder{ID: uuid.NewString(), Name: name, ParentID: in.ParentID, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	out := dto.ToFolderResponse(f)
	return &out, nil
}

// Update renombra la carpeta o la mueve bajo otro padre. Mover una carpeta bajo sí misma
// o bajo un descendiente devuelve ErrInvalidInput.
func (uc *FolderUseCase) Update(ctx context.Context, id string, in dto.UpdateFolderRequest) (*dto.FolderResponse, error) {
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == nil && in.ParentID == nil && !in.MoveToRoot {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		f.Name = name
	}
	switch {
	case in.MoveToRoot:
		f.ParentID = nil
	case in.ParentID != nil:
		if err := uc.checkNoCycle(ctx, id, *in.ParentID); err != nil {
			return nil, err
		}
		parent := *in.ParentID
		f.ParentID = &parent
	}
	f.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	out := dto.ToFolderResponse(f)
	return &out, nil
}

// List devuelve todas las carpetas ordenadas por nombre.
func (uc *FolderUseCase) List(ctx context.Context) ([]dto.FolderResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FolderResponse, 0, len(list))
	for _, f := range list {
		items = append(items, dto.ToFolderResponse(f))
	}
	return items, nil
}

// Delete borra la carpeta: sus productos quedan sin carpeta y sus subcarpetas pasan al padre
// de la borrada, todo en una transacción.
func (uc *FolderUseCase) Delete(ctx context.Context, id string) (*dto.FolderDeleteResponse, error) {
	var relocated int64
	err := uc.tx.RunCatalog(ctx, func(ctx context.Context, folderRepo repository.FolderRepository, stockRepo repository.StockRecordRepository) error {
		f, err := folderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNotFound
		}
		n, err := stockRepo.ClearFolder(ctx, id)
		if err != nil {
			return err
		}
		if err := folderRepo.Reparent(ctx, id, f.ParentID); err != nil {
			return err
		}
		if err := folderRepo.Delete(ctx, id); err != nil {
			return err
		}
		relocated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.FolderDeleteResponse{ID: id, RelocatedProducts: relocated}, nil
}

func (uc *FolderUseCase) mustExist(ctx context.Context, id string) error {
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return domain.ErrNotFound
	}
	return nil
}

// checkNoCycle recorre los ancestros de parentID buscando id.
func (uc *FolderUseCase) checkNoCycle(ctx context.Context, id, parentID string) error {
	seen := map[string]bool{}
	cur := &parentID
	for cur != nil {
		if *cur == id {
			return domain.ErrInvalidInput
		}
		if seen[*cur] {
			return domain.ErrInvalidInput
		}
		seen[*cur] = true
		f, err := uc.repo.GetByID(ctx, *cur)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNotFound
		}
		cur = f.ParentID
	}
	return nil
}
