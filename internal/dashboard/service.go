package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forgedesk/forgedesk/internal/shop"
)

// Sources supplies the four raw collections the summary is derived from.
// *shop.Client satisfies this.
type Sources interface {
	Sales(ctx context.Context) ([]shop.SaleRecord, error)
	Projects(ctx context.Context) ([]shop.ProjectRecord, error)
	Customers(ctx context.Context) ([]shop.CustomerRecord, error)
	Inventory(ctx context.Context) ([]shop.InventoryItemRecord, error)
}

// SourceMonitor counts degraded fetches; *observability.Metrics satisfies
// this.
type SourceMonitor interface {
	SourceFailure(source string)
}

// Service coordinates source fetching, aggregation, and caching.
type Service struct {
	sources Sources
	cache   *Cache
	logger  *slog.Logger
	monitor SourceMonitor
	now     func() time.Time
}

// NewService wires the sources with the cache helper.
func NewService(sources Sources, cache *Cache, logger *slog.Logger, monitor SourceMonitor) *Service {
	return &Service{
		sources: sources,
		cache:   cache,
		logger:  logger,
		monitor: monitor,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Load returns the dashboard summary, cache-accelerated when Redis is
// configured. It never fails on upstream trouble: each source degrades to an
// empty collection independently, and a cache error falls back to direct
// computation. Worst case the summary is built entirely from empty inputs.
func (s *Service) Load(ctx context.Context) Summary {
	now := s.now()
	loader := func(ctx context.Context) (interface{}, error) {
		return s.build(ctx, now), nil
	}

	if s.cache == nil {
		return s.build(ctx, now)
	}

	key, err := s.cache.BuildKey(ctx, "dashboard", "summary", s.cache.Bucket(now))
	if err != nil {
		s.warn("cache key", err)
		return s.build(ctx, now)
	}
	var summary Summary
	if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
		s.warn("cache fetch", err)
		return s.build(ctx, now)
	}
	return summary
}

// Refresh invalidates cached summaries.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// build fans out the four fetches and aggregates whatever survived. The
// fetches run concurrently; each failure is isolated to its own source and
// converted into an empty collection before the join point, so one slow or
// broken endpoint cannot take the dashboard down with it.
func (s *Service) build(ctx context.Context, now time.Time) Summary {
	var (
		sales     []shop.SaleRecord
		projects  []shop.ProjectRecord
		customers []shop.CustomerRecord
		inventory []shop.InventoryItemRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.sources.Sales(ctx)
		if err != nil {
			s.degrade("sales", err)
			return nil
		}
		sales = records
		return nil
	})
	g.Go(func() error {
		records, err := s.sources.Projects(ctx)
		if err != nil {
			s.degrade("projects", err)
			return nil
		}
		projects = records
		return nil
	})
	g.Go(func() error {
		records, err := s.sources.Customers(ctx)
		if err != nil {
			s.degrade("customers", err)
			return nil
		}
		customers = records
		return nil
	})
	g.Go(func() error {
		records, err := s.sources.Inventory(ctx)
		if err != nil {
			s.degrade("inventory", err)
			return nil
		}
		inventory = records
		return nil
	})
	_ = g.Wait()

	return BuildSummary(now, sales, projects, customers, inventory)
}

func (s *Service) degrade(source string, err error) {
	if s.logger != nil {
		s.logger.Warn("source degraded to empty collection", slog.String("source", source), slog.Any("error", err))
	}
	if s.monitor != nil {
		s.monitor.SourceFailure(source)
	}
}

func (s *Service) warn(op string, err error) {
	if s.logger != nil {
		s.logger.Warn("dashboard cache bypassed", slog.String("op", op), slog.Any("error", err))
	}
}
