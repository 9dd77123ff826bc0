package knowledge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	repos "github.com/yungbote/superfunded-backend/internal/data/repos/knowledge"
	"github.com/yungbote/superfunded-backend/internal/data/repos/testutil"
	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type fakeFAQs struct {
	rows []*types.FAQ
	err  error
}

func (f fakeFAQs) ListActive(dbctx.Context) ([]*types.FAQ, error) { return f.rows, f.err }

type fakeInfo struct {
	rows  []*types.AiInfo
	err   error
	block bool
}

func (f fakeInfo) ListActive(dbc dbctx.Context) ([]*types.AiInfo, error) {
	if f.block {
		<-dbc.Ctx.Done()
		return nil, dbc.Ctx.Err()
	}
	return f.rows, f.err
}

type fakePromos struct {
	rows []*types.PromoCode
	err  error
}

func (f fakePromos) ListActive(dbctx.Context, time.Time) ([]*types.PromoCode, error) {
	return f.rows, f.err
}

type memCache struct {
	mu   sync.Mutex
	snap *types.Snapshot
	sets int
}

func (m *memCache) Get(context.Context) (*types.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.snap != nil, nil
}

func (m *memCache) Set(_ context.Context, snap *types.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.sets++
	return nil
}

func (m *memCache) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	return nil
}

func TestCompose_OnlyAiInfoSection(t *testing.T) {
	c := NewCompositor(logger.Nop(),
		fakeFAQs{},
		fakeInfo{rows: []*types.AiInfo{{Title: "Promo", Content: "20% off", InfoType: types.InfoPromo, IsActive: true}}},
		fakePromos{},
		Options{},
	)
	got := c.Compose(context.Background())

	if !strings.HasPrefix(got, Static()) {
		t.Fatalf("static sections must come first")
	}
	idx := strings.Index(got, HeadingAiInfo)
	if idx < 0 {
		t.Fatalf("missing %q section", HeadingAiInfo)
	}
	if !strings.Contains(got[idx:], "20% off") {
		t.Fatalf("ai info content missing from its section")
	}
	if strings.Contains(got, HeadingFAQs) || strings.Contains(got, HeadingPromos) {
		t.Fatalf("empty sections must be omitted:\n%s", got[len(Static()):])
	}
}

func TestCompose_NoRecordsIsStatic(t *testing.T) {
	c := NewCompositor(logger.Nop(), fakeFAQs{}, fakeInfo{}, fakePromos{}, Options{})
	if got := c.Compose(context.Background()); got != Static() {
		t.Fatalf("expected static prompt only")
	}
}

func TestCompose_SectionOrder(t *testing.T) {
	end := repos.Day(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	c := NewCompositor(logger.Nop(),
		fakeFAQs{rows: []*types.FAQ{{Question: "Weekend holding?", Answer: "Yes.", Category: types.CategoryTrading}}},
		fakeInfo{rows: []*types.AiInfo{{Title: "Notice", Content: "Servers move Friday.", InfoType: types.InfoRules}}},
		fakePromos{rows: []*types.PromoCode{
			{Code: "SPRING20", DiscountType: types.DiscountPercentage, DiscountValue: 20, EndDate: &end},
			{Code: "FLAT50", DiscountType: types.DiscountFixed, DiscountValue: 50, Notes: "First purchase only."},
		}},
		Options{},
	)
	got := c.Compose(context.Background())

	ai := strings.Index(got, HeadingAiInfo)
	faq := strings.Index(got, HeadingFAQs)
	promo := strings.Index(got, HeadingPromos)
	if ai < 0 || faq < 0 || promo < 0 || !(ai < faq && faq < promo) {
		t.Fatalf("section order ai=%d faq=%d promo=%d", ai, faq, promo)
	}
	for _, want := range []string{
		"**SPRING20**: 20% off, valid until 2026-05-01",
		"**FLAT50**: $50 off. First purchase only.",
		"Weekend holding?",
		"Servers move Friday.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if strings.Contains(got, "{{") || strings.Contains(got, "%!") {
		t.Fatalf("prompt contains unresolved placeholders")
	}
}

func TestCompose_FailOpenOnFetchError(t *testing.T) {
	c := NewCompositor(logger.Nop(),
		fakeFAQs{err: errors.New("connection refused")},
		fakeInfo{rows: []*types.AiInfo{{Title: "x", Content: "y"}}},
		fakePromos{},
		Options{},
	)
	if got := c.Compose(context.Background()); got != Static() {
		t.Fatalf("expected static prompt when a fetch fails")
	}
}

func TestCompose_FailOpenOnTimeout(t *testing.T) {
	c := NewCompositor(logger.Nop(), fakeFAQs{}, fakeInfo{block: true}, fakePromos{}, Options{FetchTimeout: 20 * time.Millisecond})

	start := time.Now()
	got := c.Compose(context.Background())
	if got != Static() {
		t.Fatalf("expected static prompt on timeout")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("fetch timeout not applied")
	}
}

func TestSnapshot_ReadThroughCache(t *testing.T) {
	cache := &memCache{}
	c := NewCompositor(logger.Nop(),
		fakeFAQs{rows: []*types.FAQ{{Question: "q", Answer: "a", Category: types.CategoryGeneral}}},
		fakeInfo{}, fakePromos{},
		Options{Cache: cache},
	)
	ctx := context.Background()
	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets=%d, want 1", cache.sets)
	}
	c.Invalidate(ctx)
	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if cache.sets != 2 {
		t.Fatalf("cache sets=%d after invalidate, want 2", cache.sets)
	}
}

func TestCompose_InactiveFAQExcludedWithRepos(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	testutil.SeedFAQ(t, ctx, db, "Visible question", "Visible answer", types.CategoryGeneral, true)
	hidden := testutil.SeedFAQ(t, ctx, db, "Hidden question", "Hidden answer", types.CategoryGeneral, false)

	faqRepo := repos.NewFAQRepo(db, log)
	if _, err := faqRepo.UpdateFields(dbctx.Context{Ctx: ctx}, hidden.ID, map[string]interface{}{"answer": "Hidden answer v2"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	c := NewCompositor(log, faqRepo, repos.NewAiInfoRepo(db, log), repos.NewPromoCodeRepo(db, log), Options{})
	got := c.Compose(ctx)
	if !strings.Contains(got, "Visible answer") {
		t.Fatalf("active faq missing")
	}
	if strings.Contains(got, "Hidden") {
		t.Fatalf("inactive faq leaked into prompt")
	}
}
