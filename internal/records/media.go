package records

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hygio/internal/auth"
	"hygio/internal/blob"
	"hygio/internal/faults"
	"hygio/internal/logs"
	"hygio/internal/models"
	"hygio/internal/repo"
)

type Media struct {
	store  *repo.MediaStore
	idents *repo.IdentityStore
	blobs  blob.Store
}

func NewMedia(store *repo.MediaStore, idents *repo.IdentityStore, blobs blob.Store) *Media {
	return &Media{store: store, idents: idents, blobs: blobs}
}

// MediaInput — фото/этикетка с байтами файла.
type MediaInput struct {
	TargetSiret string
	Kind        string // photo|traceability
	Title       string
	Description string
	ContentType string
	Filename    string
	Data        []byte
	CapturedAt  time.Time
	Metadata    map[string]any
}

// Create: сначала байты в blob-хранилище, затем метаданные в БД.
// Если вставка метаданных не удалась — blob подчищается best effort;
// обратный порядок оставил бы строку со ссылкой в никуда.
func (m *Media) Create(ctx context.Context, actor auth.Identity, in MediaInput) (*models.MediaRecord, error) {
	if err := checkTargetSiret(actor, in.TargetSiret); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindMedia, auth.OpCreate, in.TargetSiret))
	if err != nil {
		return nil, err
	}
	if err := checkEmployerTenant(ctx, m.idents, actor, scope); err != nil {
		return nil, err
	}

	v := &faults.Validation{}
	if in.Kind != models.MediaKindPhoto && in.Kind != models.MediaKindTraceability {
		v.Add("kind", "must be photo or traceability")
	}
	if len(in.Data) == 0 {
		v.Add("file", "required")
	}
	if len(v.Fields) > 0 {
		return nil, v
	}
	capturedAt := in.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	ref, err := m.blobs.Put(ctx, in.Data, in.ContentType, in.Filename)
	if err != nil {
		return nil, faults.Dependency("blob put", err)
	}

	rec := &models.MediaRecord{
		UUID:        uuid.NewString(),
		TenantSiret: scope,
		AuthorUUID:  actor.UUID,
		AuthorRole:  actor.Role,
		Kind:        in.Kind,
		BlobRef:     ref,
		Title:       in.Title,
		Description: in.Description,
		ContentType: in.ContentType,
		CapturedAt:  capturedAt.UTC(),
		Metadata:    datatypes.JSONMap(in.Metadata),
	}
	if err := m.store.Create(ctx, rec); err != nil {
		if derr := m.blobs.Delete(ctx, ref); derr != nil {
			logs.Logger.Warnf("orphan blob cleanup failed ref=%s: %v", ref, derr)
		}
		return nil, faults.WrapDB("media create", err)
	}
	return rec, nil
}

func (m *Media) List(ctx context.Context, actor auth.Identity, target, kind string) ([]models.MediaRecord, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindMedia, auth.OpList, target))
	if err != nil {
		return nil, err
	}
	out, err := m.store.List(ctx, scope, kind)
	if err != nil {
		return nil, faults.WrapDB("media list", err)
	}
	return out, nil
}

// Open отдаёт метаданные и байты файла.
func (m *Media) Open(ctx context.Context, actor auth.Identity, target, id string) (*models.MediaRecord, []byte, string, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, nil, "", err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindMedia, auth.OpRead, target))
	if err != nil {
		return nil, nil, "", err
	}
	rec, err := m.store.GetScoped(ctx, scope, id)
	if err != nil {
		return nil, nil, "", faults.WrapDB("media get", err)
	}
	data, ct, err := m.blobs.Open(ctx, rec.BlobRef)
	if err != nil {
		return nil, nil, "", faults.Dependency("blob open", err)
	}
	if ct == "" {
		ct = rec.ContentType
	}
	return rec, data, ct, nil
}

func (m *Media) Update(ctx context.Context, actor auth.Identity, target, id string, p repo.MediaPatch) (*models.MediaRecord, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindMedia, auth.OpUpdate, target))
	if err != nil {
		return nil, err
	}
	rec, err := m.store.Update(ctx, scope, id, p)
	if err != nil {
		return nil, faults.WrapDB("media update", err)
	}
	return rec, nil
}

// Delete: строка удаляется транзакционно, blob — best effort после.
// Осиротевший blob — меньшее зло, чем заблокированное удаление
// метаданных, поэтому отказ хранилища только логируем.
func (m *Media) Delete(ctx context.Context, actor auth.Identity, target, id string) error {
	if err := checkTargetSiret(actor, target); err != nil {
		return err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindMedia, auth.OpDelete, target))
	if err != nil {
		return err
	}
	rec, err := m.store.Delete(ctx, scope, id)
	if err != nil {
		return faults.WrapDB("media delete", err)
	}
	if derr := m.blobs.Delete(ctx, rec.BlobRef); derr != nil {
		logs.Logger.Warnf("blob delete failed ref=%s: %v", rec.BlobRef, derr)
	}
	return nil
}
