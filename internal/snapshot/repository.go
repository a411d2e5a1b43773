// Package snapshot archives daily dashboard summaries so trends older than
// the shop API's retention stay auditable.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forgedesk/forgedesk/internal/dashboard"
)

const snapshotDayConstraint = "uq_dashboard_snapshots_day"

// isSameDayConflict reports whether err is the unique violation raised when a
// capture already exists for the calendar day.
func isSameDayConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == snapshotDayConstraint
}

// Record is one archived summary capture.
type Record struct {
	ID              uuid.UUID         `json:"id"`
	CapturedAt      time.Time         `json:"capturedAt"`
	TotalOrders     int               `json:"totalOrders"`
	TotalRevenue    float64           `json:"totalRevenue"`
	NewCustomers    int               `json:"newCustomers"`
	ActiveProjects  int               `json:"activeProjects"`
	CancelledOrders int               `json:"cancelledOrders"`
	Summary         dashboard.Summary `json:"summary"`
}

// Repository encapsulates DB operations for snapshots.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save archives a capture, one row per calendar day. A second capture on the
// same day replaces the first.
func (r *Repository) Save(ctx context.Context, capturedAt time.Time, summary dashboard.Summary) (Record, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return Record{}, fmt.Errorf("snapshot: encode summary: %w", err)
	}

	record := Record{
		ID:              uuid.New(),
		CapturedAt:      capturedAt.UTC(),
		TotalOrders:     summary.Totals.TotalOrders,
		TotalRevenue:    summary.Totals.TotalRevenue,
		NewCustomers:    summary.Totals.NewCustomers,
		ActiveProjects:  summary.Totals.ActiveProjects,
		CancelledOrders: summary.Totals.CancelledOrders,
	}
	record.Summary = summary

	_, err = r.pool.Exec(ctx, `
		INSERT INTO dashboard_snapshots (id, captured_on, captured_at, total_orders, total_revenue, new_customers, active_projects, cancelled_orders, summary)
		VALUES ($1, $2::date, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.CapturedAt, record.TotalOrders, record.TotalRevenue, record.NewCustomers, record.ActiveProjects, record.CancelledOrders, payload)
	if err != nil {
		if isSameDayConflict(err) {
			return r.replace(ctx, record, payload)
		}
		return Record{}, fmt.Errorf("snapshot: insert: %w", err)
	}
	return record, nil
}

func (r *Repository) replace(ctx context.Context, record Record, payload []byte) (Record, error) {
	_, err := r.pool.Exec(ctx, `
		UPDATE dashboard_snapshots
		SET id = $1, captured_at = $2, total_orders = $3, total_revenue = $4, new_customers = $5, active_projects = $6, cancelled_orders = $7, summary = $8
		WHERE captured_on = $2::date`,
		record.ID, record.CapturedAt, record.TotalOrders, record.TotalRevenue, record.NewCustomers, record.ActiveProjects, record.CancelledOrders, payload)
	if err != nil {
		return Record{}, fmt.Errorf("snapshot: replace: %w", err)
	}
	return record, nil
}

// Recent returns the newest captures, at most limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, captured_at, total_orders, total_revenue, new_customers, active_projects, cancelled_orders, summary
		FROM dashboard_snapshots
		ORDER BY captured_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var record Record
		var payload []byte
		if err := rows.Scan(&record.ID, &record.CapturedAt, &record.TotalOrders, &record.TotalRevenue, &record.NewCustomers, &record.ActiveProjects, &record.CancelledOrders, &payload); err != nil {
			return nil, fmt.Errorf("snapshot: scan: %w", err)
		}
		if err := json.Unmarshal(payload, &record.Summary); err != nil {
			return nil, fmt.Errorf("snapshot: decode summary: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
