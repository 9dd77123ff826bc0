package knowledge

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type PromoCodeRepo interface {
	Create(dbc dbctx.Context, row *types.PromoCode) (*types.PromoCode, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PromoCode, error)
	List(dbc dbctx.Context) ([]*types.PromoCode, error)
	// ListActive returns active codes valid on the given day.
	ListActive(dbc dbctx.Context, today time.Time) ([]*types.PromoCode, error)
	// Current returns the most recently created active code that has not expired, or nil.
	Current(dbc dbctx.Context, today time.Time) (*types.PromoCode, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.PromoCode, error)
	Toggle(dbc dbctx.Context, id uuid.UUID) (*types.PromoCode, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Counts(dbc dbctx.Context) (Counts, error)
}

type promoCodeRepo struct {
	t   table[types.PromoCode]
	log *logger.Logger
}

func NewPromoCodeRepo(db *gorm.DB, baseLog *logger.Logger) PromoCodeRepo {
	return &promoCodeRepo{
		t:   table[types.PromoCode]{db: db},
		log: baseLog.With("repo", "PromoCodeRepo"),
	}
}

// Day truncates t to a UTC calendar date for comparisons against date columns.
func Day(t time.Time) datatypes.Date {
	y, m, d := t.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (r *promoCodeRepo) Create(dbc dbctx.Context, row *types.PromoCode) (*types.PromoCode, error) {
	return r.t.create(dbc, row)
}

func (r *promoCodeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PromoCode, error) {
	return r.t.get(dbc, id)
}

func (r *promoCodeRepo) List(dbc dbctx.Context) ([]*types.PromoCode, error) {
	return r.t.list(dbc, "created_at DESC")
}

func (r *promoCodeRepo) ListActive(dbc dbctx.Context, today time.Time) ([]*types.PromoCode, error) {
	day := Day(today)
	var out []*types.PromoCode
	err := r.t.tx(dbc).
		Where("is_active = ?", true).
		Where("end_date IS NULL OR end_date >= ?", day).
		Where("start_date IS NULL OR start_date <= ?", day).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promoCodeRepo) Current(dbc dbctx.Context, today time.Time) (*types.PromoCode, error) {
	var row types.PromoCode
	err := r.t.tx(dbc).
		Where("is_active = ?", true).
		Where("end_date IS NULL OR end_date >= ?", Day(today)).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *promoCodeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*types.PromoCode, error) {
	return r.t.updateFields(dbc, id, updates)
}

func (r *promoCodeRepo) Toggle(dbc dbctx.Context, id uuid.UUID) (*types.PromoCode, error) {
	return r.t.toggle(dbc, id)
}

func (r *promoCodeRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.t.delete(dbc, id)
}

func (r *promoCodeRepo) Counts(dbc dbctx.Context) (Counts, error) {
	return r.t.counts(dbc)
}
