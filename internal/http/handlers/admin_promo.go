package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/http/response"
)

// Dates are calendar days ("2006-01-02"); an empty string clears the bound.
type promoInput struct {
	Code          *string  `json:"code"`
	DiscountType  *string  `json:"discount_type"`
	DiscountValue *float64 `json:"discount_value"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	IsActive      *bool    `json:"is_active"`
	Notes         *string  `json:"notes"`
}

func (in promoInput) updates(create bool, current *types.PromoCode) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if v, ok := trimmed(in.Code); ok || create {
		if v == "" {
			return nil, fmt.Errorf("code is required")
		}
		out["code"] = strings.ToUpper(v)
	}

	discountType := types.DiscountPercentage
	if current != nil {
		discountType = current.DiscountType
	}
	if v, ok := trimmed(in.DiscountType); ok || create {
		if v == "" {
			v = types.DiscountPercentage
		}
		if v != types.DiscountPercentage && v != types.DiscountFixed {
			return nil, fmt.Errorf("discount_type must be percentage or fixed")
		}
		out["discount_type"] = v
		discountType = v
	}

	value := 0.0
	if current != nil {
		value = current.DiscountValue
	}
	if in.DiscountValue != nil || create {
		if in.DiscountValue == nil {
			return nil, fmt.Errorf("discount_value is required")
		}
		value = *in.DiscountValue
		out["discount_value"] = value
	}
	_, valueSet := out["discount_value"]
	_, typeSet := out["discount_type"]
	if valueSet || typeSet {
		if value <= 0 {
			return nil, fmt.Errorf("discount_value must be positive")
		}
		if discountType == types.DiscountPercentage && value > 100 {
			return nil, fmt.Errorf("percentage discount cannot exceed 100")
		}
	}

	var start, end *datatypes.Date
	if current != nil {
		start, end = current.StartDate, current.EndDate
	}
	if in.StartDate != nil {
		d, err := parseDay(*in.StartDate, "start_date")
		if err != nil {
			return nil, err
		}
		start = d
		out["start_date"] = nullableDay(d)
	}
	if in.EndDate != nil {
		d, err := parseDay(*in.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		end = d
		out["end_date"] = nullableDay(d)
	}
	if start != nil && end != nil && time.Time(*end).Before(time.Time(*start)) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	if in.IsActive != nil {
		out["is_active"] = *in.IsActive
	} else if create {
		out["is_active"] = true
	}
	if v, ok := trimmed(in.Notes); ok {
		out["notes"] = v
	}
	return out, nil
}

func parseDay(raw, field string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date like 2006-01-02", field)
	}
	d := datatypes.Date(t)
	return &d, nil
}

func nullableDay(d *datatypes.Date) interface{} {
	if d == nil {
		return nil
	}
	return d
}

// GET /api/admin/promos
func (h *AdminHandler) ListPromos(c *gin.Context) {
	rows, err := h.promos.List(h.dbc(c))
	if err != nil {
		h.internal(c, "list promos", err)
		return
	}
	response.RespondOK(c, gin.H{"promos": rows})
}

// POST /api/admin/promos
func (h *AdminHandler) CreatePromo(c *gin.Context) {
	var in promoInput
	if !h.bind(c, &in) {
		return
	}
	u, err := in.updates(true, nil)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	row := &types.PromoCode{
		Code:          u["code"].(string),
		DiscountType:  u["discount_type"].(string),
		DiscountValue: u["discount_value"].(float64),
		IsActive:      u["is_active"].(bool),
	}
	if d, ok := u["start_date"].(*datatypes.Date); ok {
		row.StartDate = d
	}
	if d, ok := u["end_date"].(*datatypes.Date); ok {
		row.EndDate = d
	}
	if n, ok := u["notes"].(string); ok {
		row.Notes = n
	}
	created, err := h.promos.Create(h.dbc(c), row)
	h.mutated(c, http.StatusCreated, created, err, "create promo")
}

// PUT /api/admin/promos/:id
func (h *AdminHandler) UpdatePromo(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var in promoInput
	if !h.bind(c, &in) {
		return
	}
	current, err := h.promos.GetByID(h.dbc(c), id)
	if err != nil {
		h.mutated(c, http.StatusOK, nil, err, "load promo")
		return
	}
	u, err := in.updates(false, current)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	row, err := h.promos.UpdateFields(h.dbc(c), id, u)
	h.mutated(c, http.StatusOK, row, err, "update promo")
}

// POST /api/admin/promos/:id/toggle
func (h *AdminHandler) TogglePromo(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	row, err := h.promos.Toggle(h.dbc(c), id)
	h.mutated(c, http.StatusOK, row, err, "toggle promo")
}

// DELETE /api/admin/promos/:id
func (h *AdminHandler) DeletePromo(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	err := h.promos.Delete(h.dbc(c), id)
	h.mutated(c, http.StatusNoContent, nil, err, "delete promo")
}
