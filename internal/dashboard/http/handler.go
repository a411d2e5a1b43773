// Package dashboardhttp exposes the dashboard summary over JSON.
package dashboardhttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forgedesk/forgedesk/internal/dashboard"
	"github.com/forgedesk/forgedesk/internal/platform/httpx"
	"github.com/forgedesk/forgedesk/internal/snapshot"
)

const defaultSnapshotLimit = 30

// SummaryService loads the aggregated dashboard summary.
type SummaryService interface {
	Load(ctx context.Context) dashboard.Summary
	Refresh(ctx context.Context) error
}

// SnapshotStore lists archived summary captures.
type SnapshotStore interface {
	Recent(ctx context.Context, limit int) ([]snapshot.Record, error)
}

// Handler coordinates HTTP requests for the dashboard.
type Handler struct {
	logger    *slog.Logger
	service   SummaryService
	snapshots SnapshotStore
	validator *validator.Validate
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service SummaryService, snapshots SnapshotStore) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		snapshots: snapshots,
		validator: validator.New(),
	}
}

// MountRoutes registers dashboard routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.handleSummary)
	r.Get("/snapshots", h.handleSnapshots)
	r.Post("/refresh", h.handleRefresh)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Load(r.Context()))
}

type snapshotQuery struct {
	Limit int `validate:"gte=1,lte=90"`
}

func (h *Handler) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		httpx.Problem(w, http.StatusNotImplemented, "Snapshots Disabled", "snapshot archive is not configured")
		return
	}

	query := snapshotQuery{Limit: defaultSnapshotLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be an integer")
			return
		}
		query.Limit = limit
	}
	if err := h.validator.Struct(query); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be between 1 and 90")
		return
	}

	records, err := h.snapshots.Recent(r.Context(), query.Limit)
	if err != nil {
		h.logger.Error("list snapshots", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": records})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.Error("refresh dashboard cache", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}
