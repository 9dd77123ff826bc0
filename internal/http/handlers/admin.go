package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	repos "github.com/yungbote/superfunded-backend/internal/data/repos/knowledge"
	"github.com/yungbote/superfunded-backend/internal/http/response"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

// KnowledgeInvalidator is told whenever admin-managed records change.
type KnowledgeInvalidator interface {
	Invalidate(ctx context.Context)
}

type AdminHandler struct {
	log      *logger.Logger
	faqs     repos.FAQRepo
	promos   repos.PromoCodeRepo
	info     repos.AiInfoRepo
	chatLogs repos.ChatLogRepo
	cache    KnowledgeInvalidator
}

func NewAdminHandler(log *logger.Logger, faqs repos.FAQRepo, promos repos.PromoCodeRepo, info repos.AiInfoRepo, chatLogs repos.ChatLogRepo, cache KnowledgeInvalidator) *AdminHandler {
	return &AdminHandler{
		log:      log.With("handler", "AdminHandler"),
		faqs:     faqs,
		promos:   promos,
		info:     info,
		chatLogs: chatLogs,
		cache:    cache,
	}
}

type StatsResponse struct {
	FAQs     repos.Counts `json:"faqs"`
	Promos   repos.Counts `json:"promos"`
	AiInfo   repos.Counts `json:"ai_info"`
	ChatLogs int64        `json:"chat_logs"`
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	dbc := h.dbc(c)
	var (
		out StatsResponse
		err error
	)
	if out.FAQs, err = h.faqs.Counts(dbc); err != nil {
		h.internal(c, "count faqs", err)
		return
	}
	if out.Promos, err = h.promos.Counts(dbc); err != nil {
		h.internal(c, "count promos", err)
		return
	}
	if out.AiInfo, err = h.info.Counts(dbc); err != nil {
		h.internal(c, "count ai info", err)
		return
	}
	if out.ChatLogs, err = h.chatLogs.Count(dbc); err != nil {
		h.internal(c, "count chat logs", err)
		return
	}
	response.RespondOK(c, out)
}

func (h *AdminHandler) dbc(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func (h *AdminHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

// mutated reports the outcome of a write and drops the cached knowledge snapshot on success.
func (h *AdminHandler) mutated(c *gin.Context, status int, payload any, err error, op string) {
	if errors.Is(err, repos.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		h.internal(c, op, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context())
	}
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

func (h *AdminHandler) internal(c *gin.Context, op string, err error) {
	h.log.Error("admin "+op+" failed", "error", err)
	response.RespondError(c, http.StatusInternalServerError, "internal error")
}

func (h *AdminHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func trimmed(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return strings.TrimSpace(*p), true
}
