package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/forgedesk/forgedesk/internal/shop"
)

type stubSources struct {
	sales     []shop.SaleRecord
	projects  []shop.ProjectRecord
	customers []shop.CustomerRecord
	inventory []shop.InventoryItemRecord

	salesErr     error
	projectsErr  error
	customersErr error
	inventoryErr error

	salesCalls int
}

func (s *stubSources) Sales(ctx context.Context) ([]shop.SaleRecord, error) {
	s.salesCalls++
	return s.sales, s.salesErr
}

func (s *stubSources) Projects(ctx context.Context) ([]shop.ProjectRecord, error) {
	return s.projects, s.projectsErr
}

func (s *stubSources) Customers(ctx context.Context) ([]shop.CustomerRecord, error) {
	return s.customers, s.customersErr
}

func (s *stubSources) Inventory(ctx context.Context) ([]shop.InventoryItemRecord, error) {
	return s.inventory, s.inventoryErr
}

type recordingMonitor struct {
	failures []string
}

func (m *recordingMonitor) SourceFailure(source string) {
	m.failures = append(m.failures, source)
}

func newCachedService(t *testing.T, sources Sources, monitor SourceMonitor) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(sources, NewCache(client, time.Minute), slog.Default(), monitor)
	svc.WithNow(testNow)
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestLoadIsolatesSourceFailures(t *testing.T) {
	now := testNow()
	sources := &stubSources{
		sales: decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
			{"id": 1, "sold_at": %q, "price": 42, "channel": "etsy"}
		]`, stamp(now, 2))),
		inventoryErr: errors.New("inventory endpoint down"),
	}
	monitor := &recordingMonitor{}
	svc := NewService(sources, nil, slog.Default(), monitor)
	svc.WithNow(testNow)

	summary := svc.Load(context.Background())

	if summary.Totals.TotalOrders != 1 || summary.Totals.TotalRevenue != 42 {
		t.Fatalf("sales should survive an inventory outage, got %+v", summary.Totals)
	}
	if len(summary.LowInventory) != 0 {
		t.Fatalf("failed source must degrade to empty, got %+v", summary.LowInventory)
	}
	if len(monitor.failures) != 1 || monitor.failures[0] != "inventory" {
		t.Fatalf("expected one recorded inventory failure, got %v", monitor.failures)
	}
}

func TestLoadSurvivesTotalOutage(t *testing.T) {
	down := errors.New("connection refused")
	sources := &stubSources{
		salesErr:     down,
		projectsErr:  down,
		customersErr: down,
		inventoryErr: down,
	}
	svc := NewService(sources, nil, slog.Default(), nil)
	svc.WithNow(testNow)

	summary := svc.Load(context.Background())

	if summary.Totals != (Totals{}) {
		t.Fatalf("expected zeroed totals when every source fails, got %+v", summary.Totals)
	}
	if len(summary.SalesByMonth) != 12 {
		t.Fatalf("month axis must survive a total outage, got %d points", len(summary.SalesByMonth))
	}
}

func TestLoadCachesSummary(t *testing.T) {
	now := testNow()
	sources := &stubSources{
		sales: decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
			{"id": 1, "sold_at": %q, "price": 10}
		]`, stamp(now, 1))),
	}
	svc, cleanup := newCachedService(t, sources, nil)
	defer cleanup()

	ctx := context.Background()
	first := svc.Load(ctx)
	if first.Totals.TotalOrders != 1 {
		t.Fatalf("unexpected first load %+v", first.Totals)
	}
	if sources.salesCalls != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", sources.salesCalls)
	}

	second := svc.Load(ctx)
	if sources.salesCalls != 1 {
		t.Fatalf("expected cached result, upstream fetched %d times", sources.salesCalls)
	}
	if second.Totals != first.Totals {
		t.Fatalf("cached summary diverged: %+v vs %+v", second.Totals, first.Totals)
	}
}

func TestRefreshInvalidatesCache(t *testing.T) {
	now := testNow()
	sources := &stubSources{
		sales: decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
			{"id": 1, "sold_at": %q, "price": 10}
		]`, stamp(now, 1))),
	}
	svc, cleanup := newCachedService(t, sources, nil)
	defer cleanup()

	ctx := context.Background()
	_ = svc.Load(ctx)
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	_ = svc.Load(ctx)
	if sources.salesCalls != 2 {
		t.Fatalf("expected reload after refresh, upstream fetched %d times", sources.salesCalls)
	}
}
