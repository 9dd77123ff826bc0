package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.FAQ{},
		&types.PromoCode{},
		&types.AiInfo{},
		&types.ChatLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
