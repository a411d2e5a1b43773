package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/forgedesk/forgedesk/internal/shop"
)

const (
	topProductLimit   = 8
	lowInventoryLimit = 10
	lowStockThreshold = 5
	activityLimit     = 20
)

// BuildSummary derives the full dashboard summary from the four collections.
// Inputs are read-only snapshots; a nil or empty collection simply produces
// zeroed buckets. All windowed buckets share the two periods derived from
// now.
func BuildSummary(now time.Time, sales []shop.SaleRecord, projects []shop.ProjectRecord, customers []shop.CustomerRecord, inventory []shop.InventoryItemRecord) Summary {
	current, previous := Windows(now)

	currentSales := salesInWindow(sales, current)
	previousSales := salesInWindow(sales, previous)

	currentCustomers := customersInWindow(customers, current)
	previousCustomers := customersInWindow(customers, previous)

	currentCancelled := cancelledInWindow(projects, current)
	previousCancelled := cancelledInWindow(projects, previous)

	currentRevenue := sumRevenue(currentSales)
	previousRevenue := sumRevenue(previousSales)

	active := 0
	for _, project := range projects {
		if project.StatusLabel() == shop.ProjectStatusActive {
			active++
		}
	}

	keys := monthKeys(now)

	return Summary{
		Totals: Totals{
			TotalOrders:     len(currentSales),
			TotalRevenue:    currentRevenue,
			NewCustomers:    len(currentCustomers),
			ActiveProjects:  active,
			CancelledOrders: len(currentCancelled),
		},
		Trends: Trends{
			TotalOrders:     PctChange(float64(len(currentSales)), float64(len(previousSales))),
			TotalRevenue:    PctChange(currentRevenue, previousRevenue),
			NewCustomers:    PctChange(float64(len(currentCustomers)), float64(len(previousCustomers))),
			ActiveProjects:  PctChange(float64(activeInWindow(projects, current)), float64(activeInWindow(projects, previous))),
			CancelledOrders: PctChange(float64(len(currentCancelled)), float64(len(previousCancelled))),
		},
		Channels:          channelCounts(currentSales),
		ProjectStatus:     statusCounts(projects),
		SalesByMonth:      monthlyRevenue(sales, keys),
		RevenueVsExpenses: monthlyRevenueExpenses(sales, keys),
		TopProducts:       topProducts(currentSales),
		LowInventory:      lowInventory(inventory),
		RecentActivity:    recentActivity(currentSales, currentCustomers, currentCancelled),
	}
}

func salesInWindow(sales []shop.SaleRecord, w Window) []shop.SaleRecord {
	matched := make([]shop.SaleRecord, 0, len(sales))
	for _, sale := range sales {
		if t, ok := sale.OccurredAt(); ok && w.Contains(t) {
			matched = append(matched, sale)
		}
	}
	return matched
}

func customersInWindow(customers []shop.CustomerRecord, w Window) []shop.CustomerRecord {
	matched := make([]shop.CustomerRecord, 0, len(customers))
	for _, customer := range customers {
		if t, ok := customer.JoinedAt(); ok && w.Contains(t) {
			matched = append(matched, customer)
		}
	}
	return matched
}

func cancelledInWindow(projects []shop.ProjectRecord, w Window) []shop.ProjectRecord {
	matched := make([]shop.ProjectRecord, 0)
	for _, project := range projects {
		if project.StatusLabel() != shop.ProjectStatusCancelled {
			continue
		}
		if t, ok := project.TouchedAt(); ok && w.Contains(t) {
			matched = append(matched, project)
		}
	}
	return matched
}

func activeInWindow(projects []shop.ProjectRecord, w Window) int {
	count := 0
	for _, project := range projects {
		if project.StatusLabel() != shop.ProjectStatusActive {
			continue
		}
		if t, ok := project.TouchedAt(); ok && w.Contains(t) {
			count++
		}
	}
	return count
}

func sumRevenue(sales []shop.SaleRecord) float64 {
	total := 0.0
	for _, sale := range sales {
		total += sale.Price.Coerce()
	}
	return total
}

// channelCounts tallies orders per channel in first-seen order.
func channelCounts(sales []shop.SaleRecord) []ChannelCount {
	counts := make([]ChannelCount, 0)
	index := make(map[string]int)
	for _, sale := range sales {
		channel := sale.SaleChannel()
		if i, ok := index[channel]; ok {
			counts[i].Orders++
			continue
		}
		index[channel] = len(counts)
		counts = append(counts, ChannelCount{Channel: channel, Orders: 1})
	}
	return counts
}

// statusCounts tallies projects per status in first-seen order.
func statusCounts(projects []shop.ProjectRecord) []StatusCount {
	counts := make([]StatusCount, 0)
	index := make(map[string]int)
	for _, project := range projects {
		status := project.StatusLabel()
		if i, ok := index[status]; ok {
			counts[i].Count++
			continue
		}
		index[status] = len(counts)
		counts = append(counts, StatusCount{Status: status, Count: 1})
	}
	return counts
}

// monthlyRevenue accumulates sale revenue onto the fixed 12-month axis.
// Sales older than the axis are dropped; there is no overflow bucket.
func monthlyRevenue(sales []shop.SaleRecord, keys []string) []MonthRevenue {
	byMonth := make(map[string]float64, len(keys))
	for _, sale := range sales {
		t, ok := sale.OccurredAt()
		if !ok {
			continue
		}
		byMonth[monthKey(t)] += sale.Price.Coerce()
	}
	series := make([]MonthRevenue, 0, len(keys))
	for _, key := range keys {
		series = append(series, MonthRevenue{Month: key, Revenue: byMonth[key]})
	}
	return series
}

// monthlyRevenueExpenses mirrors monthlyRevenue with a parallel fee sum.
func monthlyRevenueExpenses(sales []shop.SaleRecord, keys []string) []MonthRevenueExpenses {
	type bucket struct {
		revenue  float64
		expenses float64
	}
	byMonth := make(map[string]bucket, len(keys))
	for _, sale := range sales {
		t, ok := sale.OccurredAt()
		if !ok {
			continue
		}
		key := monthKey(t)
		b := byMonth[key]
		b.revenue += sale.Price.Coerce()
		b.expenses += sale.Fees.Coerce()
		byMonth[key] = b
	}
	series := make([]MonthRevenueExpenses, 0, len(keys))
	for _, key := range keys {
		b := byMonth[key]
		series = append(series, MonthRevenueExpenses{Month: key, Revenue: b.revenue, Expenses: b.expenses})
	}
	return series
}

// topProducts groups current-window sales by product identity, then ranks by
// revenue. The sort is stable so equal-revenue products keep encounter order.
func topProducts(sales []shop.SaleRecord) []TopProduct {
	groups := make([]TopProduct, 0)
	index := make(map[string]int)
	for _, sale := range sales {
		key := sale.ProductKey()
		if i, ok := index[key]; ok {
			groups[i].UnitsSold++
			groups[i].Revenue += sale.Price.Coerce()
			continue
		}
		index[key] = len(groups)
		groups = append(groups, TopProduct{
			ProductName: sale.ProductName(),
			UnitsSold:   1,
			Revenue:     sale.Price.Coerce(),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Revenue > groups[j].Revenue })
	if len(groups) > topProductLimit {
		groups = groups[:topProductLimit]
	}
	return groups
}

// lowInventory selects items below the restock threshold, at most ten. The
// threshold is echoed on every entry so the view can render it without
// knowing the policy.
func lowInventory(items []shop.InventoryItemRecord) []LowInventoryItem {
	low := make([]LowInventoryItem, 0)
	for _, item := range items {
		quantity := item.QuantityOnHand()
		if quantity >= lowStockThreshold {
			continue
		}
		low = append(low, LowInventoryItem{
			ItemName:  item.DisplayName(),
			Category:  item.CategoryLabel(),
			Quantity:  quantity,
			Threshold: lowStockThreshold,
		})
		if len(low) == lowInventoryLimit {
			break
		}
	}
	return low
}

// recentActivity merges the three event sources into one feed, newest first.
// Entries without a parseable timestamp sort after all dated entries; their
// relative order is not further stabilised.
func recentActivity(sales []shop.SaleRecord, customers []shop.CustomerRecord, cancelled []shop.ProjectRecord) []Activity {
	feed := make([]Activity, 0, len(sales)+len(customers)+len(cancelled))
	for _, sale := range sales {
		feed = append(feed, Activity{
			ID:        fmt.Sprintf("sale-%s", sale.ID.String()),
			Type:      "sale",
			Message:   fmt.Sprintf("Sold %s on %s", sale.ProductName(), sale.SaleChannel()),
			Timestamp: activityTime(sale.OccurredAt()),
		})
	}
	for _, customer := range customers {
		feed = append(feed, Activity{
			ID:        fmt.Sprintf("customer-%s", customer.ID.String()),
			Type:      "customer",
			Message:   fmt.Sprintf("New customer %s", customer.DisplayName()),
			Timestamp: activityTime(customer.JoinedAt()),
		})
	}
	for _, project := range cancelled {
		feed = append(feed, Activity{
			ID:        fmt.Sprintf("project-%s", project.ID.String()),
			Type:      "cancellation",
			Message:   fmt.Sprintf("Project %s cancelled", project.DisplayName()),
			Timestamp: activityTime(project.TouchedAt()),
		})
	}
	sort.SliceStable(feed, func(i, j int) bool {
		a, b := feed[i].Timestamp, feed[j].Timestamp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(feed) > activityLimit {
		feed = feed[:activityLimit]
	}
	return feed
}

func activityTime(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	utc := t.UTC()
	return &utc
}
