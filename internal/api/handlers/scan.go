package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/nutriscan/internal/api/dto"
	"github.com/pratik-mahalle/nutriscan/internal/domain/scan"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

// ScanHandler serves barcode scans and ad-hoc analysis
type ScanHandler struct {
	service   scan.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewScanHandler(service scan.Service, log *logger.Logger, val *validator.Validator) *ScanHandler {
	return &ScanHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Scan looks up a barcode and analyzes it for the caller
// @Summary Scan a barcode
// @Description Counts against the daily quota and is recorded in history
// @Tags Scans
// @Accept json
// @Produce json
// @Param request body dto.ScanRequest true "Barcode"
// @Success 200 {object} scan.Outcome
// @Failure 404 {object} utils.ErrorResponse "Product not found"
// @Failure 429 {object} utils.ErrorResponse "Daily scan limit reached"
// @Security BearerAuth
// @Router /scans [post]
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.ScanRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	outcome, err := h.service.Scan(r.Context(), userID, req.Barcode)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, outcome)
}

// Analyze scores a product described in the request body
// @Summary Analyze a product
// @Description Not counted against the quota and not recorded
// @Tags Scans
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "Product"
// @Success 200 {object} scan.Outcome
// @Security BearerAuth
// @Router /analyze [post]
func (h *ScanHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.AnalyzeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	outcome, err := h.service.Analyze(r.Context(), userID, req.ToProduct())
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, outcome)
}
