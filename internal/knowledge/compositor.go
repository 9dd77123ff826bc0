package knowledge

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

type FAQLister interface {
	ListActive(dbc dbctx.Context) ([]*types.FAQ, error)
}

type AiInfoLister interface {
	ListActive(dbc dbctx.Context) ([]*types.AiInfo, error)
}

type PromoLister interface {
	ListActive(dbc dbctx.Context, today time.Time) ([]*types.PromoCode, error)
}

type Options struct {
	// FetchTimeout bounds the record reads for one prompt.
	FetchTimeout time.Duration
	// Cache is optional.
	Cache Cache
	// Now defaults to time.Now.
	Now func() time.Time
}

type Compositor struct {
	log    *logger.Logger
	faqs   FAQLister
	info   AiInfoLister
	promos PromoLister
	cache  Cache

	fetchTimeout time.Duration
	now          func() time.Time
}

func NewCompositor(log *logger.Logger, faqs FAQLister, info AiInfoLister, promos PromoLister, opts Options) *Compositor {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 3 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Compositor{
		log:          log.With("service", "KnowledgeCompositor"),
		faqs:         faqs,
		info:         info,
		promos:       promos,
		cache:        opts.Cache,
		fetchTimeout: opts.FetchTimeout,
		now:          opts.Now,
	}
}

// Compose returns the system prompt. It never fails: when the records cannot be read the
// prompt is built from the static sections alone.
func (c *Compositor) Compose(ctx context.Context) string {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		c.log.Warn("knowledge fetch failed; using static prompt", "error", err)
		return Static()
	}
	return Render(snap)
}

// Snapshot reads the active records, through the cache when one is configured.
func (c *Compositor) Snapshot(ctx context.Context) (*types.Snapshot, error) {
	if c.cache != nil {
		snap, ok, err := c.cache.Get(ctx)
		if err != nil {
			c.log.Warn("knowledge cache read failed", "error", err)
		} else if ok {
			return snap, nil
		}
	}

	snap, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, snap); err != nil {
			c.log.Warn("knowledge cache write failed", "error", err)
		}
	}
	return snap, nil
}

func (c *Compositor) fetch(ctx context.Context) (*types.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	snap := &types.Snapshot{}
	today := c.now()

	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		rows, err := c.info.ListActive(dbc)
		if err != nil {
			return fmt.Errorf("ai info: %w", err)
		}
		snap.AiInfo = rows
		return nil
	})
	g.Go(func() error {
		rows, err := c.faqs.ListActive(dbc)
		if err != nil {
			return fmt.Errorf("faqs: %w", err)
		}
		snap.FAQs = rows
		return nil
	})
	g.Go(func() error {
		rows, err := c.promos.ListActive(dbc, today)
		if err != nil {
			return fmt.Errorf("promo codes: %w", err)
		}
		snap.Promos = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A lister that ignores ctx can still outlive the deadline.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Invalidate drops the cached snapshot so the next prompt sees admin edits.
func (c *Compositor) Invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx); err != nil {
		c.log.Warn("knowledge cache invalidate failed", "error", err)
	}
}
