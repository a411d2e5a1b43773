// Package dashboard computes the shop overview surfaced on the admin home
// screen. Everything in this package below the Service is a pure
// transformation of already-fetched collections; fetching and caching live
// at the edges.
package dashboard

import "time"

// Totals are the headline counters for the current 30-day window.
// ActiveProjects is the one exception: it counts the whole collection.
type Totals struct {
	TotalOrders     int     `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	NewCustomers    int     `json:"newCustomers"`
	ActiveProjects  int     `json:"activeProjects"`
	CancelledOrders int     `json:"cancelledOrders"`
}

// Trends carry the percentage change of each headline counter against the
// previous 30-day window. A nil entry means there is no baseline to compare
// against; the UI renders it as "New".
type Trends struct {
	TotalOrders     *float64 `json:"totalOrdersPctChange"`
	TotalRevenue    *float64 `json:"totalRevenuePctChange"`
	NewCustomers    *float64 `json:"newCustomersPctChange"`
	ActiveProjects  *float64 `json:"activeProjectsPctChange"`
	CancelledOrders *float64 `json:"cancelledOrdersPctChange"`
}

// ChannelCount tallies current-window orders per sales channel.
type ChannelCount struct {
	Channel string `json:"channel"`
	Orders  int    `json:"orders"`
}

// StatusCount tallies projects per status across the whole collection.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// MonthRevenue is one point of the 12-month revenue series.
type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// MonthRevenueExpenses is one point of the 12-month revenue-vs-expenses
// series; marketplace fees are booked as expenses.
type MonthRevenueExpenses struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// TopProduct ranks a product by current-window revenue.
type TopProduct struct {
	ProductName string  `json:"productName"`
	UnitsSold   int     `json:"unitsSold"`
	Revenue     float64 `json:"revenue"`
}

// LowInventoryItem is a stocked item below the restock threshold.
type LowInventoryItem struct {
	ItemName  string  `json:"itemName"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Threshold int     `json:"threshold"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp"`
}

// Summary is the single record the dashboard view consumes.
type Summary struct {
	Totals            Totals                 `json:"totals"`
	Trends            Trends                 `json:"trends"`
	Channels          []ChannelCount         `json:"channels"`
	ProjectStatus     []StatusCount          `json:"projectStatus"`
	SalesByMonth      []MonthRevenue         `json:"salesByMonth"`
	RevenueVsExpenses []MonthRevenueExpenses `json:"revenueVsExpenses"`
	TopProducts       []TopProduct           `json:"topProducts"`
	LowInventory      []LowInventoryItem     `json:"lowInventory"`
	RecentActivity    []Activity             `json:"recentActivity"`
}
