package shop

import (
	"fmt"
	"math"
	"time"
)

// The shop API grew out of several backend revisions, so list payloads mix
// snake_case and camelCase spellings of the same field. Each record type
// declares every spelling it may receive and documents its fallback order
// once, in the accessor methods below. Aggregation code must only use the
// accessors, never the raw fields.

// SaleRecord is one completed transaction.
type SaleRecord struct {
	ID     Scalar `json:"id"`
	SoldAt Scalar `json:"sold_at"`
	Sold   Scalar `json:"soldAt"`
	Placed Scalar `json:"created_at"`
	Create Scalar `json:"createdAt"`

	Price   Scalar `json:"price"`
	Fees    Scalar `json:"fees"`
	Channel Scalar `json:"channel"`

	TemplateID   Scalar `json:"template_id"`
	TemplateRef  Scalar `json:"templateId"`
	ProjectID    Scalar `json:"project_id"`
	ProjectRef   Scalar `json:"projectId"`
	TemplateName Scalar `json:"template_name"`
	TemplateText Scalar `json:"templateName"`
	Name         Scalar `json:"name"`
	Title        Scalar `json:"title"`
}

// OccurredAt resolves the sale timestamp: sold_at, soldAt, created_at,
// createdAt, first parseable wins.
func (s SaleRecord) OccurredAt() (time.Time, bool) {
	return firstTimestamp(s.SoldAt, s.Sold, s.Placed, s.Create)
}

// SaleChannel returns the marketplace tag, defaulting to "other".
func (s SaleRecord) SaleChannel() string {
	if ch := s.Channel.String(); ch != "" {
		return ch
	}
	return "other"
}

// ProductKey resolves the grouping identity: template_id/templateId,
// project_id/projectId, then the sale's own id.
func (s SaleRecord) ProductKey() string {
	for _, candidate := range []Scalar{s.TemplateID, s.TemplateRef, s.ProjectID, s.ProjectRef, s.ID} {
		if key := candidate.String(); key != "" {
			return key
		}
	}
	return ""
}

// ProductName resolves the display name: template_name, templateName, name,
// title, falling back to "Item #<id>".
func (s SaleRecord) ProductName() string {
	for _, candidate := range []Scalar{s.TemplateName, s.TemplateText, s.Name, s.Title} {
		if name := candidate.String(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Item #%s", s.ProductKey())
}

// CustomerRecord is one buyer relationship.
type CustomerRecord struct {
	ID       Scalar `json:"id"`
	Created  Scalar `json:"created_at"`
	CreateAt Scalar `json:"createdAt"`
	Name     Scalar `json:"name"`
	Display  Scalar `json:"display_name"`
	DispName Scalar `json:"displayName"`
	IsActive bool   `json:"is_active"`
	Active   bool   `json:"isActive"`
}

// JoinedAt resolves the customer creation timestamp: created_at, createdAt.
func (c CustomerRecord) JoinedAt() (time.Time, bool) {
	return firstTimestamp(c.Created, c.CreateAt)
}

// DisplayName resolves the customer name: name, display_name, displayName,
// falling back to "New customer".
func (c CustomerRecord) DisplayName() string {
	for _, candidate := range []Scalar{c.Name, c.Display, c.DispName} {
		if name := candidate.String(); name != "" {
			return name
		}
	}
	return "New customer"
}

// ActiveFlag reports whether either spelling of the active marker is set.
func (c CustomerRecord) ActiveFlag() bool {
	return c.IsActive || c.Active
}

// ProjectRecord is one unit of work.
type ProjectRecord struct {
	ID        Scalar `json:"id"`
	Status    Scalar `json:"status"`
	Cancelled Scalar `json:"cancelled_at"`
	CancelAt  Scalar `json:"cancelledAt"`
	Updated   Scalar `json:"updated_at"`
	UpdateAt  Scalar `json:"updatedAt"`
	Created   Scalar `json:"created_at"`
	CreateAt  Scalar `json:"createdAt"`
	Name      Scalar `json:"name"`
	Title     Scalar `json:"title"`
}

// Project status values the dashboard distinguishes. The status set is open;
// anything else is tallied under its own label and missing values bucket as
// "unknown".
const (
	ProjectStatusActive    = "active"
	ProjectStatusCancelled = "cancelled"
)

// StatusLabel returns the status, defaulting to "unknown".
func (p ProjectRecord) StatusLabel() string {
	if status := p.Status.String(); status != "" {
		return status
	}
	return "unknown"
}

// TouchedAt resolves the project timestamp: cancelled_at, cancelledAt,
// updated_at, updatedAt, created_at, createdAt.
func (p ProjectRecord) TouchedAt() (time.Time, bool) {
	return firstTimestamp(p.Cancelled, p.CancelAt, p.Updated, p.UpdateAt, p.Created, p.CreateAt)
}

// DisplayName resolves the project name: name, title, falling back to
// "Project #<id>".
func (p ProjectRecord) DisplayName() string {
	for _, candidate := range []Scalar{p.Name, p.Title} {
		if name := candidate.String(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Project #%s", p.ID.String())
}

// InventoryItemRecord is one stocked item.
type InventoryItemRecord struct {
	ID       Scalar `json:"id"`
	Name     Scalar `json:"name"`
	ItemName Scalar `json:"item_name"`
	ItemText Scalar `json:"itemName"`
	Quantity Scalar `json:"quantity"`
	InvType  Scalar `json:"inventory_type"`
	InvText  Scalar `json:"inventoryType"`
	Category Scalar `json:"category"`
}

// DisplayName resolves the item name: name, item_name, itemName, falling
// back to "Item #<id>".
func (i InventoryItemRecord) DisplayName() string {
	for _, candidate := range []Scalar{i.Name, i.ItemName, i.ItemText} {
		if name := candidate.String(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Item #%s", i.ID.String())
}

// CategoryLabel resolves the category: inventory_type, inventoryType,
// category, defaulting to "other".
func (i InventoryItemRecord) CategoryLabel() string {
	for _, candidate := range []Scalar{i.InvType, i.InvText, i.Category} {
		if cat := candidate.String(); cat != "" {
			return cat
		}
	}
	return "other"
}

// QuantityOnHand is the coerced stock count; non-numeric values count as 0.
func (i InventoryItemRecord) QuantityOnHand() float64 {
	return i.Quantity.Coerce()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// firstTimestamp walks the fallback chain and returns the first value that
// parses. Records with no parseable timestamp are excluded from windowed
// buckets, never defaulted into the current period.
func firstTimestamp(candidates ...Scalar) (time.Time, bool) {
	for _, candidate := range candidates {
		if t, ok := parseTimestamp(candidate); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimestamp(value Scalar) (time.Time, bool) {
	if value.IsZero() {
		return time.Time{}, false
	}
	if f, ok := value.Float64(); ok {
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return time.Time{}, false
		}
		// Seconds past 1e12 would mean year 33658; treat such values as ms.
		if f > 1e12 {
			return time.UnixMilli(int64(f)).UTC(), true
		}
		return time.Unix(int64(f), 0).UTC(), true
	}
	raw := value.String()
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
