package app

import (
	"gorm.io/gorm"

	repos "github.com/yungbote/superfunded-backend/internal/data/repos/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type Repos struct {
	FAQ       repos.FAQRepo
	AiInfo    repos.AiInfoRepo
	PromoCode repos.PromoCodeRepo
	ChatLog   repos.ChatLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		FAQ:       repos.NewFAQRepo(db, log),
		AiInfo:    repos.NewAiInfoRepo(db, log),
		PromoCode: repos.NewPromoCodeRepo(db, log),
		ChatLog:   repos.NewChatLogRepo(db, log),
	}
}
