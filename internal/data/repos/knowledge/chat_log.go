package knowledge

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type ChatLogRepo interface {
	Create(dbc dbctx.Context, row *types.ChatLog) error
	Count(dbc dbctx.Context) (int64, error)
}

type chatLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatLogRepo(db *gorm.DB, baseLog *logger.Logger) ChatLogRepo {
	return &chatLogRepo{
		db:  db,
		log: baseLog.With("repo", "ChatLogRepo"),
	}
}

func (r *chatLogRepo) Create(dbc dbctx.Context, row *types.ChatLog) error {
	if row == nil {
		return fmt.Errorf("nil chat log")
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *chatLogRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.ChatLog{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
