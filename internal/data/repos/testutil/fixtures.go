package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
)

func SeedFAQ(tb testing.TB, ctx context.Context, tx *gorm.DB, question, answer, category string, active bool) *types.FAQ {
	tb.Helper()
	f := &types.FAQ{
		Question: question,
		Answer:   answer,
		Category: category,
		IsActive: active,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed faq: %v", err)
	}
	return f
}

func SeedAiInfo(tb testing.TB, ctx context.Context, tx *gorm.DB, title, content, infoType string, active bool) *types.AiInfo {
	tb.Helper()
	a := &types.AiInfo{
		Title:    title,
		Content:  content,
		InfoType: infoType,
		IsActive: active,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed ai info: %v", err)
	}
	return a
}

// SeedPromo creates a percentage promo. A nil end never expires.
func SeedPromo(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, value float64, end *time.Time, active bool) *types.PromoCode {
	tb.Helper()
	p := &types.PromoCode{
		Code:          code,
		DiscountType:  types.DiscountPercentage,
		DiscountValue: value,
		IsActive:      active,
	}
	if end != nil {
		y, m, d := end.UTC().Date()
		day := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
		p.EndDate = &day
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed promo: %v", err)
	}
	return p
}
