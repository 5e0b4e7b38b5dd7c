package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/nutriscan/internal/api/dto"
	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/export"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
)

// HistoryReader serves plan-filtered history
type HistoryReader interface {
	List(ctx context.Context, userID string) ([]history.Entry, subscription.Plan, error)
	Get(ctx context.Context, userID, id string) (*history.Entry, error)
	Clear(ctx context.Context, userID string) error
}

// Exporter renders and publishes history exports
type Exporter interface {
	Export(ctx context.Context, userID string, format export.Format) ([]byte, error)
	Publish(ctx context.Context, userID string, format export.Format) (string, error)
}

// HistoryHandler handles scan history requests
type HistoryHandler struct {
	history  HistoryReader
	exporter Exporter
	logger   *logger.Logger
}

func NewHistoryHandler(h HistoryReader, exp Exporter, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{history: h, exporter: exp, logger: log}
}

// List returns the visible history with pagination
// @Summary List scan history
// @Description Free plans see nothing, premium the most recent entries, pro everything
// @Tags History
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} dto.HistoryResponse
// @Security BearerAuth
// @Router /history [get]
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	entries, plan, err := h.history.List(r.Context(), userID)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}

	params := utils.ParsePaginationParams(r)
	start, end := params.Window(len(entries))
	page := utils.NewPaginatedResponse(entries[start:end], params.Page, params.PageSize, int64(len(entries)))

	utils.WriteSuccess(w, http.StatusOK, dto.HistoryResponse{
		Plan:              string(plan),
		PaginatedResponse: page,
	})
}

// Get returns one history entry
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	entry, err := h.history.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, entry)
}

// Clear deletes the caller's history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.history.Clear(r.Context(), userID); err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "History cleared", nil)
}

// Download streams the full history as json or csv
func (h *HistoryHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.WriteError(w, errors.BadRequest(err.Error()))
		return
	}

	data, err := h.exporter.Export(r.Context(), userID, format)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="nutriscan-history.%s"`, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Publish uploads the export to the configured sink
func (h *HistoryHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.WriteError(w, errors.BadRequest(err.Error()))
		return
	}

	loc, err := h.exporter.Publish(r.Context(), userID, format)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.ExportResponse{Location: loc, Format: string(format)})
}
