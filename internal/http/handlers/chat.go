package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/superfunded-backend/internal/chat"
	"github.com/yungbote/superfunded-backend/internal/http/middleware"
	"github.com/yungbote/superfunded-backend/internal/http/response"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type ChatStreamer interface {
	Stream(ctx context.Context, req chat.Request) (io.ReadCloser, error)
}

type ChatHandler struct {
	log      *logger.Logger
	svc      ChatStreamer
	maxBytes int64
}

func NewChatHandler(log *logger.Logger, svc ChatStreamer, maxBytes int64) *ChatHandler {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &ChatHandler{log: log.With("handler", "ChatHandler"), svc: svc, maxBytes: maxBytes}
}

// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	var req chat.Request
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body, err := h.svc.Stream(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	buf := make([]byte, 32<<10)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				h.log.Debug("client went away mid-stream", "error", werr)
				return
			}
			c.Writer.Flush()
		}
		if rerr == io.EOF {
			return
		}
		if rerr != nil {
			if c.Request.Context().Err() == nil {
				h.log.Warn("upstream stream ended with error", "error", rerr)
			}
			return
		}
	}
}

// OPTIONS preflight for clients that omit Origin, which the CORS middleware leaves alone.
func (h *ChatHandler) Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", strings.Join(middleware.AllowedHeaders, ", "))
	c.Header("Access-Control-Allow-Methods", strings.Join(middleware.AllowedMethods, ", "))
	c.AbortWithStatus(http.StatusNoContent)
}
