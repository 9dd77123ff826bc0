package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/http/response"
)

type aiInfoInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	InfoType *string `json:"info_type"`
	IsActive *bool   `json:"is_active"`
}

func (in aiInfoInput) updates(create bool) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if v, ok := trimmed(in.Title); ok || create {
		if v == "" {
			return nil, fmt.Errorf("title is required")
		}
		out["title"] = v
	}
	if v, ok := trimmed(in.Content); ok || create {
		if v == "" {
			return nil, fmt.Errorf("content is required")
		}
		out["content"] = v
	}
	if v, ok := trimmed(in.InfoType); ok || create {
		if v == "" {
			v = types.InfoRules
		}
		if !oneOf(v, types.InfoTypes) {
			return nil, fmt.Errorf("info_type must be one of %s", strings.Join(types.InfoTypes, ", "))
		}
		out["info_type"] = v
	}
	if in.IsActive != nil {
		out["is_active"] = *in.IsActive
	} else if create {
		out["is_active"] = true
	}
	return out, nil
}

// GET /api/admin/ai-info
func (h *AdminHandler) ListAiInfo(c *gin.Context) {
	rows, err := h.info.List(h.dbc(c))
	if err != nil {
		h.internal(c, "list ai info", err)
		return
	}
	response.RespondOK(c, gin.H{"ai_info": rows})
}

// POST /api/admin/ai-info
func (h *AdminHandler) CreateAiInfo(c *gin.Context) {
	var in aiInfoInput
	if !h.bind(c, &in) {
		return
	}
	u, err := in.updates(true)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	row, err := h.info.Create(h.dbc(c), &types.AiInfo{
		Title:    u["title"].(string),
		Content:  u["content"].(string),
		InfoType: u["info_type"].(string),
		IsActive: u["is_active"].(bool),
	})
	h.mutated(c, http.StatusCreated, row, err, "create ai info")
}

// PUT /api/admin/ai-info/:id
func (h *AdminHandler) UpdateAiInfo(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var in aiInfoInput
	if !h.bind(c, &in) {
		return
	}
	u, err := in.updates(false)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	row, err := h.info.UpdateFields(h.dbc(c), id, u)
	h.mutated(c, http.StatusOK, row, err, "update ai info")
}

// POST /api/admin/ai-info/:id/toggle
func (h *AdminHandler) ToggleAiInfo(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	row, err := h.info.Toggle(h.dbc(c), id)
	h.mutated(c, http.StatusOK, row, err, "toggle ai info")
}

// DELETE /api/admin/ai-info/:id
func (h *AdminHandler) DeleteAiInfo(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	err := h.info.Delete(h.dbc(c), id)
	h.mutated(c, http.StatusNoContent, nil, err, "delete ai info")
}
