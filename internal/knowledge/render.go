package knowledge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
)

const (
	HeadingAiInfo = "ADMIN-MANAGED AI INFORMATION"
	HeadingFAQs   = "ADMIN-MANAGED FAQS"
	HeadingPromos = "ACTIVE PROMO CODES"
)

// Render builds the full system prompt from the static sections and snap.
// Empty sub-sections are left out, and so is the whole dynamic block when snap holds no records.
func Render(snap *types.Snapshot) string {
	var b strings.Builder
	b.WriteString(Static())
	if dyn := renderDynamic(snap); dyn != "" {
		b.WriteString("\n\n")
		b.WriteString(dyn)
	}
	return b.String()
}

func renderDynamic(snap *types.Snapshot) string {
	if snap.Empty() {
		return ""
	}
	var sections []string
	if s := renderAiInfo(snap.AiInfo); s != "" {
		sections = append(sections, s)
	}
	if s := renderFAQs(snap.FAQs); s != "" {
		sections = append(sections, s)
	}
	if s := renderPromos(snap.Promos); s != "" {
		sections = append(sections, s)
	}
	return strings.Join(sections, "\n\n")
}

func renderAiInfo(rows []*types.AiInfo) string {
	var b strings.Builder
	n := 0
	for _, r := range rows {
		if r == nil {
			continue
		}
		if n == 0 {
			b.WriteString("## " + HeadingAiInfo)
		}
		n++
		fmt.Fprintf(&b, "\n\n### %s (%s)\n%s", strings.TrimSpace(r.Title), r.InfoType, strings.TrimSpace(r.Content))
	}
	return b.String()
}

func renderFAQs(rows []*types.FAQ) string {
	var b strings.Builder
	n := 0
	for _, r := range rows {
		if r == nil {
			continue
		}
		if n == 0 {
			b.WriteString("## " + HeadingFAQs)
		}
		n++
		fmt.Fprintf(&b, "\n\n**Q (%s): %s**\n- %s", r.Category, strings.TrimSpace(r.Question), strings.TrimSpace(r.Answer))
	}
	return b.String()
}

func renderPromos(rows []*types.PromoCode) string {
	var b strings.Builder
	n := 0
	for _, r := range rows {
		if r == nil {
			continue
		}
		if n == 0 {
			b.WriteString("## " + HeadingPromos + "\n")
		}
		n++
		fmt.Fprintf(&b, "\n- **%s**: %s", r.Code, discountText(r))
		if r.StartDate != nil {
			fmt.Fprintf(&b, ", valid from %s", time.Time(*r.StartDate).Format(time.DateOnly))
		}
		if r.EndDate != nil {
			fmt.Fprintf(&b, ", valid until %s", time.Time(*r.EndDate).Format(time.DateOnly))
		}
		if notes := strings.TrimSpace(r.Notes); notes != "" {
			b.WriteString(". " + notes)
		}
	}
	return b.String()
}

func discountText(p *types.PromoCode) string {
	v := strconv.FormatFloat(p.DiscountValue, 'f', -1, 64)
	if p.DiscountType == types.DiscountFixed {
		return "$" + v + " off"
	}
	return v + "% off"
}
