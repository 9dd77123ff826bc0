package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/superfunded-backend/internal/http/handlers"
	httpMW "github.com/yungbote/superfunded-backend/internal/http/middleware"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

const ServiceName = "superfunded-backend"

type RouterConfig struct {
	Log *logger.Logger

	// ChatPublicKey gates the chat endpoints when set.
	ChatPublicKey  string
	AuthMiddleware *httpMW.AuthMiddleware

	ChatHandler   *httpH.ChatHandler
	PromoHandler  *httpH.PromoHandler
	AdminHandler  *httpH.AdminHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Chat (public, optionally keyed)
	if cfg.ChatHandler != nil {
		chatKey := httpMW.RequirePublicKey(cfg.ChatPublicKey)
		for _, p := range []string{"/api/chat", "/functions/v1/superfunded-chat"} {
			r.OPTIONS(p, cfg.ChatHandler.Preflight)
			r.POST(p, chatKey, cfg.ChatHandler.Chat)
		}
	}

	api := r.Group("/api")
	if cfg.PromoHandler != nil {
		api.GET("/promos/current", cfg.PromoHandler.Current)
	}

	if cfg.AdminHandler != nil && cfg.AuthMiddleware != nil {
		admin := api.Group("/admin")
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
		h := cfg.AdminHandler

		admin.GET("/stats", h.Stats)

		admin.GET("/faqs", h.ListFAQs)
		admin.POST("/faqs", h.CreateFAQ)
		admin.PUT("/faqs/:id", h.UpdateFAQ)
		admin.DELETE("/faqs/:id", h.DeleteFAQ)
		admin.POST("/faqs/:id/toggle", h.ToggleFAQ)

		admin.GET("/promos", h.ListPromos)
		admin.POST("/promos", h.CreatePromo)
		admin.PUT("/promos/:id", h.UpdatePromo)
		admin.DELETE("/promos/:id", h.DeletePromo)
		admin.POST("/promos/:id/toggle", h.TogglePromo)

		admin.GET("/ai-info", h.ListAiInfo)
		admin.POST("/ai-info", h.CreateAiInfo)
		admin.PUT("/ai-info/:id", h.UpdateAiInfo)
		admin.DELETE("/ai-info/:id", h.DeleteAiInfo)
		admin.POST("/ai-info/:id/toggle", h.ToggleAiInfo)
	}

	return r
}
