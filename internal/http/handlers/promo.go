package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/http/response"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type CurrentPromoFinder interface {
	Current(dbc dbctx.Context, today time.Time) (*types.PromoCode, error)
}

type PromoHandler struct {
	log    *logger.Logger
	promos CurrentPromoFinder
	now    func() time.Time
}

func NewPromoHandler(log *logger.Logger, promos CurrentPromoFinder) *PromoHandler {
	return &PromoHandler{log: log.With("handler", "PromoHandler"), promos: promos, now: time.Now}
}

// GET /api/promos/current
func (h *PromoHandler) Current(c *gin.Context) {
	p, err := h.promos.Current(dbctx.Context{Ctx: c.Request.Context()}, h.now())
	if err != nil {
		h.log.Error("load current promo failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if p == nil {
		c.Status(http.StatusNoContent)
		return
	}
	response.RespondOK(c, p)
}
