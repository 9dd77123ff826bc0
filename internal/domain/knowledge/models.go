package knowledge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CategoryPricing     = "pricing"
	CategoryRules       = "rules"
	CategoryPayouts     = "payouts"
	CategoryEligibility = "eligibility"
	CategoryTrading     = "trading"
	CategoryGeneral     = "general"
)

var FAQCategories = []string{
	CategoryPricing, CategoryRules, CategoryPayouts, CategoryEligibility, CategoryTrading, CategoryGeneral,
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

const (
	InfoRules   = "rules"
	InfoPricing = "pricing"
	InfoLegal   = "legal"
	InfoPromo   = "promo"
)

var InfoTypes = []string{InfoRules, InfoPricing, InfoLegal, InfoPromo}

// FAQ is an admin-curated question/answer pair.
type FAQ struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Question string    `gorm:"type:text;not null" json:"question"`
	Answer   string    `gorm:"type:text;not null" json:"answer"`
	Category string    `gorm:"type:text;not null;index" json:"category"`
	IsActive bool      `gorm:"not null;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (FAQ) TableName() string { return "faqs" }

func (f *FAQ) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// PromoCode is a discount code shown to the model and the promo banner.
// StartDate and EndDate are calendar dates; a nil EndDate never expires.
type PromoCode struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string          `gorm:"type:text;not null;index" json:"code"`
	DiscountType  string          `gorm:"type:text;not null" json:"discount_type"`
	DiscountValue float64         `gorm:"not null" json:"discount_value"`
	StartDate     *datatypes.Date `gorm:"type:date" json:"start_date,omitempty"`
	EndDate       *datatypes.Date `gorm:"type:date;index" json:"end_date,omitempty"`
	IsActive      bool            `gorm:"not null;index" json:"is_active"`
	Notes         string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PromoCode) TableName() string { return "promo_codes" }

func (p *PromoCode) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AiInfo is free-form guidance appended to the assistant's knowledge.
type AiInfo struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string    `gorm:"type:text;not null" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	InfoType string    `gorm:"type:text;not null;index" json:"info_type"`
	IsActive bool      `gorm:"not null;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (AiInfo) TableName() string { return "ai_info" }

func (a *AiInfo) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ChatLog records one accepted chat request. It is write-only for the chat path.
type ChatLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        string    `gorm:"type:text;not null;index" json:"session_id"`
	UserMessage      string    `gorm:"type:text;not null" json:"user_message"`
	AiResponseStatus string    `gorm:"type:text;not null" json:"ai_response_status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ChatLog) TableName() string { return "chat_logs" }

func (c *ChatLog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Snapshot is the set of active records read for one prompt.
type Snapshot struct {
	AiInfo []*AiInfo    `json:"ai_info"`
	FAQs   []*FAQ       `json:"faqs"`
	Promos []*PromoCode `json:"promos"`
}

func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.AiInfo) == 0 && len(s.FAQs) == 0 && len(s.Promos) == 0)
}
