package knowledge

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
)

var ErrNotFound = errors.New("record not found")

// Counts is a total/active pair for one table.
type Counts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// table holds the statements the three admin-managed tables share.
type table[T any] struct {
	db *gorm.DB
}

func (t table[T]) tx(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(t.db)
}

func (t table[T]) create(dbc dbctx.Context, row *T) (*T, error) {
	if row == nil {
		return nil, fmt.Errorf("nil row")
	}
	if err := t.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (t table[T]) get(dbc dbctx.Context, id uuid.UUID) (*T, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	var row T
	err := t.tx(dbc).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t table[T]) list(dbc dbctx.Context, order string) ([]*T, error) {
	var out []*T
	if err := t.tx(dbc).Order(order).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (t table[T]) updateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (*T, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	var model T
	res := t.tx(dbc).Model(&model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return t.get(dbc, id)
}

func (t table[T]) toggle(dbc dbctx.Context, id uuid.UUID) (*T, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	var model T
	res := t.tx(dbc).Model(&model).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  gorm.Expr("NOT is_active"),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return t.get(dbc, id)
}

func (t table[T]) delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrNotFound
	}
	var model T
	res := t.tx(dbc).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t table[T]) counts(dbc dbctx.Context) (Counts, error) {
	var c Counts
	var model T
	if err := t.tx(dbc).Model(&model).Count(&c.Total).Error; err != nil {
		return Counts{}, err
	}
	if err := t.tx(dbc).Model(&model).Where("is_active = ?", true).Count(&c.Active).Error; err != nil {
		return Counts{}, err
	}
	return c, nil
}
