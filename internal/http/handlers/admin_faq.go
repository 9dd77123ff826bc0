package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/http/response"
)

type faqInput struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
	IsActive *bool   `json:"is_active"`
}

// updates validates in and returns the column changes it describes.
// On create every required field must be present.
func (in faqInput) updates(create bool) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if q, ok := trimmed(in.Question); ok || create {
		if q == "" {
			return nil, fmt.Errorf("question is required")
		}
		out["question"] = q
	}
	if a, ok := trimmed(in.Answer); ok || create {
		if a == "" {
			return nil, fmt.Errorf("answer is required")
		}
		out["answer"] = a
	}
	if cat, ok := trimmed(in.Category); ok || create {
		if cat == "" {
			cat = types.CategoryGeneral
		}
		if !oneOf(cat, types.FAQCategories) {
			return nil, fmt.Errorf("category must be one of %s", strings.Join(types.FAQCategories, ", "))
		}
		out["category"] = cat
	}
	if in.IsActive != nil {
		out["is_active"] = *in.IsActive
	} else if create {
		out["is_active"] = true
	}
	return out, nil
}

// GET /api/admin/faqs
func (h *AdminHandler) ListFAQs(c *gin.Context) {
	rows, err := h.faqs.List(h.dbc(c))
	if err != nil {
		h.internal(c, "list faqs", err)
		return
	}
	response.RespondOK(c, gin.H{"faqs": rows})
}

// POST /api/admin/faqs
func (h *AdminHandler) CreateFAQ(c *gin.Context) {
	var in faqInput
	if !h.bind(c, &in) {
		return
	}
	u, err := in.updates(true)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	row, err := h.faqs.Create(h.dbc(c), &types.FAQ{
		Question: u["question"].(string),
		Answer:   u["answer"].(string),
		Category: u["category"].(string),
		IsActive: u["is_active"].(bool),
	})
	h.mutated(c, http.StatusCreated, row, err, "create faq")
}

// PUT /api/admin/faqs/:id
func (h *AdminHandler) UpdateFAQ(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var in faqInput
	if !h.bind(c, &in) {
		return
	}
	u, err := in.updates(false)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	row, err := h.faqs.UpdateFields(h.dbc(c), id, u)
	h.mutated(c, http.StatusOK, row, err, "update faq")
}

// POST /api/admin/faqs/:id/toggle
func (h *AdminHandler) ToggleFAQ(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	row, err := h.faqs.Toggle(h.dbc(c), id)
	h.mutated(c, http.StatusOK, row, err, "toggle faq")
}

// DELETE /api/admin/faqs/:id
func (h *AdminHandler) DeleteFAQ(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	err := h.faqs.Delete(h.dbc(c), id)
	h.mutated(c, http.StatusNoContent, nil, err, "delete faq")
}
