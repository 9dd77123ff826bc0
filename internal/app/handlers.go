package app

import (
	"github.com/yungbote/superfunded-backend/internal/config"
	"github.com/yungbote/superfunded-backend/internal/http"
	httpH "github.com/yungbote/superfunded-backend/internal/http/handlers"
	httpMW "github.com/yungbote/superfunded-backend/internal/http/middleware"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Chat   *httpH.ChatHandler
	Promo  *httpH.PromoHandler
	Admin  *httpH.AdminHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, r Repos, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Chat:   httpH.NewChatHandler(log, s.Chat, cfg.HTTP.MaxRequestBytes),
		Promo:  httpH.NewPromoHandler(log, r.PromoCode),
		Admin:  httpH.NewAdminHandler(log, r.FAQ, r.PromoCode, r.AiInfo, r.ChatLog, s.Compositor),
	}
}

func wireRouter(log *logger.Logger, cfg *config.Config, r Repos, s Services) http.RouterConfig {
	h := wireHandlers(log, cfg, r, s)
	return http.RouterConfig{
		Log:            log,
		ChatPublicKey:  cfg.Chat.PublicKey,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Verifier),
		ChatHandler:    h.Chat,
		PromoHandler:   h.Promo,
		AdminHandler:   h.Admin,
		HealthHandler:  h.Health,
	}
}
