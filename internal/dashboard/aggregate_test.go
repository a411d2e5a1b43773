package dashboard

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/forgedesk/forgedesk/internal/shop"
)

func decodeList[T any](t *testing.T, payload string) []T {
	t.Helper()
	var records []T
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return records
}

func testNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func stamp(now time.Time, daysAgo int) string {
	return now.AddDate(0, 0, -daysAgo).Format(time.RFC3339)
}

func TestBuildSummaryEmptyInputs(t *testing.T) {
	now := testNow()
	summary := BuildSummary(now, nil, nil, nil, nil)

	if summary.Totals != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", summary.Totals)
	}
	if summary.Trends.TotalOrders != nil || summary.Trends.TotalRevenue != nil ||
		summary.Trends.NewCustomers != nil || summary.Trends.ActiveProjects != nil ||
		summary.Trends.CancelledOrders != nil {
		t.Fatalf("expected nil trends, got %+v", summary.Trends)
	}
	if len(summary.Channels) != 0 {
		t.Fatalf("expected no channels, got %+v", summary.Channels)
	}
	if len(summary.SalesByMonth) != 12 {
		t.Fatalf("expected 12 month points, got %d", len(summary.SalesByMonth))
	}
	for _, point := range summary.SalesByMonth {
		if point.Revenue != 0 {
			t.Fatalf("expected zero revenue for %s, got %.2f", point.Month, point.Revenue)
		}
	}
	if len(summary.RevenueVsExpenses) != 12 {
		t.Fatalf("expected 12 revenue/expenses points, got %d", len(summary.RevenueVsExpenses))
	}
	if len(summary.TopProducts) != 0 || len(summary.LowInventory) != 0 || len(summary.RecentActivity) != 0 {
		t.Fatalf("expected empty lists, got %+v", summary)
	}
}

func TestBuildSummaryComparesWindows(t *testing.T) {
	now := testNow()
	sales := decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
		{"id": 1, "sold_at": %q, "price": 100, "channel": "etsy", "template_id": 11, "template_name": "Oak Coaster"},
		{"id": 2, "sold_at": %q, "price": 50, "channel": "shopify"}
	]`, stamp(now, 10), stamp(now, 45)))

	summary := BuildSummary(now, sales, nil, nil, nil)

	if summary.Totals.TotalOrders != 1 {
		t.Fatalf("expected 1 current order, got %d", summary.Totals.TotalOrders)
	}
	if summary.Totals.TotalRevenue != 100 {
		t.Fatalf("expected current revenue 100, got %.2f", summary.Totals.TotalRevenue)
	}
	if summary.Trends.TotalRevenue == nil || *summary.Trends.TotalRevenue != 100 {
		t.Fatalf("expected revenue trend +100%%, got %v", summary.Trends.TotalRevenue)
	}
	if summary.Trends.TotalOrders == nil || *summary.Trends.TotalOrders != 0 {
		t.Fatalf("expected flat order trend, got %v", summary.Trends.TotalOrders)
	}
	if len(summary.Channels) != 1 || summary.Channels[0].Channel != "etsy" || summary.Channels[0].Orders != 1 {
		t.Fatalf("expected current-window etsy channel only, got %+v", summary.Channels)
	}
	if len(summary.TopProducts) != 1 || summary.TopProducts[0].ProductName != "Oak Coaster" {
		t.Fatalf("unexpected top products %+v", summary.TopProducts)
	}
}

func TestBuildSummaryNilTrendWithoutBaseline(t *testing.T) {
	now := testNow()
	sales := decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
		{"id": 1, "sold_at": %q, "price": 75}
	]`, stamp(now, 5)))

	summary := BuildSummary(now, sales, nil, nil, nil)

	if summary.Trends.TotalRevenue != nil {
		t.Fatalf("expected nil revenue trend without baseline, got %v", *summary.Trends.TotalRevenue)
	}
	if summary.Trends.TotalOrders != nil {
		t.Fatalf("expected nil order trend without baseline, got %v", *summary.Trends.TotalOrders)
	}
}

func TestWindowBoundariesAreHalfOpen(t *testing.T) {
	now := testNow()
	current, previous := Windows(now)

	if current.Contains(now) {
		t.Fatalf("now must be excluded from the current window")
	}
	if !current.Contains(now.AddDate(0, 0, -windowDays)) {
		t.Fatalf("current window start must be inclusive")
	}
	if previous.Contains(now.AddDate(0, 0, -windowDays)) {
		t.Fatalf("current window start must not leak into the previous window")
	}
	if !previous.Contains(now.AddDate(0, 0, -2*windowDays)) {
		t.Fatalf("previous window start must be inclusive")
	}
	if previous.Contains(now.AddDate(0, 0, -2*windowDays).Add(-time.Second)) {
		t.Fatalf("records older than both windows must be excluded")
	}
}

func TestMonthKeysContiguous(t *testing.T) {
	now := testNow()
	keys := monthKeys(now)

	if len(keys) != 12 {
		t.Fatalf("expected 12 keys, got %d", len(keys))
	}
	if keys[0] != "2025-04" || keys[11] != "2026-03" {
		t.Fatalf("unexpected axis span %s..%s", keys[0], keys[11])
	}
	for i := 1; i < len(keys); i++ {
		prev, err := time.Parse("2006-01", keys[i-1])
		if err != nil {
			t.Fatalf("parse key %s: %v", keys[i-1], err)
		}
		if formatMonth(prev.AddDate(0, 1, 0)) != keys[i] {
			t.Fatalf("axis gap between %s and %s", keys[i-1], keys[i])
		}
	}
}

func TestMonthlySeriesBucketsRevenueAndFees(t *testing.T) {
	now := testNow()
	sales := decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
		{"id": 1, "sold_at": %q, "price": 40, "fees": 4},
		{"id": 2, "sold_at": %q, "price": 60, "fees": 6},
		{"id": 3, "sold_at": "2020-01-01", "price": 999, "fees": 99}
	]`, stamp(now, 2), stamp(now, 3)))

	summary := BuildSummary(now, sales, nil, nil, nil)

	last := summary.RevenueVsExpenses[len(summary.RevenueVsExpenses)-1]
	if last.Month != "2026-03" || last.Revenue != 100 || last.Expenses != 10 {
		t.Fatalf("unexpected current month bucket %+v", last)
	}
	for _, point := range summary.SalesByMonth {
		if point.Month == "2026-03" && point.Revenue != 100 {
			t.Fatalf("expected 100 revenue in 2026-03, got %.2f", point.Revenue)
		}
	}
}

func TestPctChange(t *testing.T) {
	if got := PctChange(150, 100); got == nil || *got != 50 {
		t.Fatalf("expected +50%%, got %v", got)
	}
	if got := PctChange(50, 100); got == nil || *got != -50 {
		t.Fatalf("expected -50%%, got %v", got)
	}
	if got := PctChange(10, 0); got != nil {
		t.Fatalf("expected nil for zero baseline, got %v", *got)
	}
	if got := PctChange(0, 0); got != nil {
		t.Fatalf("expected nil for zero over zero, got %v", *got)
	}
}

func TestTopProductsRanksAndCaps(t *testing.T) {
	now := testNow()
	var entries string
	for i := 0; i < 10; i++ {
		if i > 0 {
			entries += ","
		}
		entries += fmt.Sprintf(`{"id": %d, "sold_at": %q, "price": %d, "template_id": %d, "template_name": "Product %d"}`,
			i+1, stamp(now, 1), 10*(10-i), 100+i, i)
	}
	sales := decodeList[shop.SaleRecord](t, "["+entries+"]")

	summary := BuildSummary(now, sales, nil, nil, nil)

	if len(summary.TopProducts) != topProductLimit {
		t.Fatalf("expected %d products, got %d", topProductLimit, len(summary.TopProducts))
	}
	if summary.TopProducts[0].ProductName != "Product 0" || summary.TopProducts[0].Revenue != 100 {
		t.Fatalf("unexpected leader %+v", summary.TopProducts[0])
	}
	for i := 1; i < len(summary.TopProducts); i++ {
		if summary.TopProducts[i].Revenue > summary.TopProducts[i-1].Revenue {
			t.Fatalf("products not sorted by revenue: %+v", summary.TopProducts)
		}
	}
}

func TestTopProductsStableOnTies(t *testing.T) {
	now := testNow()
	sales := decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
		{"id": 1, "sold_at": %q, "price": 20, "template_id": 1, "template_name": "First Seen"},
		{"id": 2, "sold_at": %q, "price": 20, "template_id": 2, "template_name": "Second Seen"}
	]`, stamp(now, 1), stamp(now, 2)))

	summary := BuildSummary(now, sales, nil, nil, nil)

	if summary.TopProducts[0].ProductName != "First Seen" || summary.TopProducts[1].ProductName != "Second Seen" {
		t.Fatalf("tie broke encounter order: %+v", summary.TopProducts)
	}
}

func TestLowInventorySelection(t *testing.T) {
	var entries string
	for i := 0; i < 12; i++ {
		if i > 0 {
			entries += ","
		}
		entries += fmt.Sprintf(`{"id": %d, "name": "Blank %d", "quantity": 1}`, 100+i, i)
	}
	inventory := decodeList[shop.InventoryItemRecord](t, fmt.Sprintf(`[
		{"id": 1, "name": "Walnut Slab", "quantity": "abc", "inventory_type": "lumber"},
		{"id": 2, "name": "Brass Hinge", "quantity": 4.5},
		{"id": 3, "name": "Stocked Item", "quantity": 5},
		%s
	]`, entries))

	summary := BuildSummary(testNow(), nil, nil, nil, inventory)

	if len(summary.LowInventory) != lowInventoryLimit {
		t.Fatalf("expected cap of %d entries, got %d", lowInventoryLimit, len(summary.LowInventory))
	}
	first := summary.LowInventory[0]
	if first.ItemName != "Walnut Slab" || first.Quantity != 0 || first.Category != "lumber" || first.Threshold != 5 {
		t.Fatalf("non-numeric quantity should count as 0: %+v", first)
	}
	if summary.LowInventory[1].Quantity != 4.5 {
		t.Fatalf("expected fractional quantity kept, got %+v", summary.LowInventory[1])
	}
	for _, item := range summary.LowInventory {
		if item.ItemName == "Stocked Item" {
			t.Fatalf("quantity at the threshold must not be flagged: %+v", item)
		}
	}
}

func TestProjectStatusCountsWholeCollection(t *testing.T) {
	now := testNow()
	projects := decodeList[shop.ProjectRecord](t, fmt.Sprintf(`[
		{"id": 1, "status": "active", "updated_at": %q},
		{"id": 2, "status": "active", "updated_at": "2024-01-01"},
		{"id": 3, "status": "cancelled", "cancelled_at": %q, "name": "Cedar Box"},
		{"id": 4, "updated_at": %q}
	]`, stamp(now, 3), stamp(now, 5), stamp(now, 1)))

	summary := BuildSummary(now, nil, projects, nil, nil)

	if summary.Totals.ActiveProjects != 2 {
		t.Fatalf("active total must span the whole collection, got %d", summary.Totals.ActiveProjects)
	}
	if summary.Totals.CancelledOrders != 1 {
		t.Fatalf("expected 1 current-window cancellation, got %d", summary.Totals.CancelledOrders)
	}
	want := map[string]int{"active": 2, "cancelled": 1, "unknown": 1}
	if len(summary.ProjectStatus) != len(want) {
		t.Fatalf("unexpected status buckets %+v", summary.ProjectStatus)
	}
	for _, bucket := range summary.ProjectStatus {
		if want[bucket.Status] != bucket.Count {
			t.Fatalf("unexpected count for %s: %+v", bucket.Status, summary.ProjectStatus)
		}
	}
}

func TestRecentActivityOrderingAndCap(t *testing.T) {
	now := testNow()
	sales := decodeList[shop.SaleRecord](t, fmt.Sprintf(`[
		{"id": 1, "sold_at": %q, "price": 10, "channel": "etsy", "name": "Pine Shelf"}
	]`, stamp(now, 2)))
	customers := decodeList[shop.CustomerRecord](t, fmt.Sprintf(`[
		{"id": 9, "created_at": %q, "name": "Avery"}
	]`, stamp(now, 1)))
	projects := decodeList[shop.ProjectRecord](t, fmt.Sprintf(`[
		{"id": 5, "status": "cancelled", "cancelled_at": %q, "name": "Cedar Box"}
	]`, stamp(now, 3)))

	summary := BuildSummary(now, sales, projects, customers, nil)

	if len(summary.RecentActivity) != 3 {
		t.Fatalf("expected 3 feed entries, got %d", len(summary.RecentActivity))
	}
	wantOrder := []string{"customer-9", "sale-1", "project-5"}
	for i, want := range wantOrder {
		if summary.RecentActivity[i].ID != want {
			t.Fatalf("unexpected feed order: %+v", summary.RecentActivity)
		}
	}
	if summary.RecentActivity[0].Message != "New customer Avery" {
		t.Fatalf("unexpected customer message %q", summary.RecentActivity[0].Message)
	}
	if summary.RecentActivity[1].Message != "Sold Pine Shelf on etsy" {
		t.Fatalf("unexpected sale message %q", summary.RecentActivity[1].Message)
	}
	if summary.RecentActivity[2].Message != "Project Cedar Box cancelled" {
		t.Fatalf("unexpected cancellation message %q", summary.RecentActivity[2].Message)
	}
}

func TestRecentActivityCapsAtTwenty(t *testing.T) {
	now := testNow()
	var entries string
	for i := 0; i < 25; i++ {
		if i > 0 {
			entries += ","
		}
		entries += fmt.Sprintf(`{"id": %d, "sold_at": %q, "price": 1}`, i+1, stamp(now, 1))
	}
	sales := decodeList[shop.SaleRecord](t, "["+entries+"]")

	summary := BuildSummary(now, sales, nil, nil, nil)

	if len(summary.RecentActivity) != activityLimit {
		t.Fatalf("expected feed capped at %d, got %d", activityLimit, len(summary.RecentActivity))
	}
}
