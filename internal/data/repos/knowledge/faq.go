package knowledge

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type FAQRepo interface {
	Create(dbc dbctx.Context, row *types.FAQ) (*types.FAQ, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.FAQ, error)
	List(dbc dbctx.Context) ([]*types.FAQ, error)
	ListActive(dbc dbctx.Context) ([]*types.FAQ, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.FAQ, error)
	Toggle(dbc dbctx.Context, id uuid.UUID) (*types.FAQ, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Counts(dbc dbctx.Context) (Counts, error)
}

type faqRepo struct {
	t   table[types.FAQ]
	log *logger.Logger
}

func NewFAQRepo(db *gorm.DB, baseLog *logger.Logger) FAQRepo {
	return &faqRepo{
		t:   table[types.FAQ]{db: db},
		log: baseLog.With("repo", "FAQRepo"),
	}
}

func (r *faqRepo) Create(dbc dbctx.Context, row *types.FAQ) (*types.FAQ, error) {
	return r.t.create(dbc, row)
}

func (r *faqRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.FAQ, error) {
	return r.t.get(dbc, id)
}

func (r *faqRepo) List(dbc dbctx.Context) ([]*types.FAQ, error) {
	return r.t.list(dbc, "updated_at DESC")
}

func (r *faqRepo) ListActive(dbc dbctx.Context) ([]*types.FAQ, error) {
	var out []*types.FAQ
	err := r.t.tx(dbc).
		Where("is_active = ?", true).
		Order("category ASC").
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *faqRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.FAQ, error) {
	return r.t.updateFields(dbc, id, updates)
}

func (r *faqRepo) Toggle(dbc dbctx.Context, id uuid.UUID) (*types.FAQ, error) {
	return r.t.toggle(dbc, id)
}

func (r *faqRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.t.delete(dbc, id)
}

func (r *faqRepo) Counts(dbc dbctx.Context) (Counts, error) {
	return r.t.counts(dbc)
}
