package knowledge

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type AiInfoRepo interface {
	Create(dbc dbctx.Context, row *types.AiInfo) (*types.AiInfo, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AiInfo, error)
	List(dbc dbctx.Context) ([]*types.AiInfo, error)
	// ListActive returns active entries grouped by info_type.
	ListActive(dbc dbctx.Context) ([]*types.AiInfo, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.AiInfo, error)
	Toggle(dbc dbctx.Context, id uuid.UUID) (*types.AiInfo, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Counts(dbc dbctx.Context) (Counts, error)
}

type aiInfoRepo struct {
	t   table[types.AiInfo]
	log *logger.Logger
}

func NewAiInfoRepo(db *gorm.DB, baseLog *logger.Logger) AiInfoRepo {
	return &aiInfoRepo{
		t:   table[types.AiInfo]{db: db},
		log: baseLog.With("repo", "AiInfoRepo"),
	}
}

func (r *aiInfoRepo) Create(dbc dbctx.Context, row *types.AiInfo) (*types.AiInfo, error) {
	return r.t.create(dbc, row)
}

func (r *aiInfoRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AiInfo, error) {
	return r.t.get(dbc, id)
}

func (r *aiInfoRepo) List(dbc dbctx.Context) ([]*types.AiInfo, error) {
	return r.t.list(dbc, "updated_at DESC")
}

func (r *aiInfoRepo) ListActive(dbc dbctx.Context) ([]*types.AiInfo, error) {
	var out []*types.AiInfo
	err := r.t.tx(dbc).
		Where("is_active = ?", true).
		Order("info_type ASC").
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *aiInfoRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.AiInfo, error) {
	return r.t.updateFields(dbc, id, updates)
}

func (r *aiInfoRepo) Toggle(dbc dbctx.Context, id uuid.UUID) (*types.AiInfo, error) {
	return r.t.toggle(dbc, id)
}

func (r *aiInfoRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.t.delete(dbc, id)
}

func (r *aiInfoRepo) Counts(dbc dbctx.Context) (Counts, error) {
	return r.t.counts(dbc)
}
