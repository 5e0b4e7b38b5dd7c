package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	apperrors "github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
	pkgvalidator "github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

// ProductHandler exposes raw product lookups
type ProductHandler struct {
	lookup  product.Lookup
	timeout time.Duration
	logger  *logger.Logger
}

func NewProductHandler(lookup product.Lookup, timeout time.Duration, log *logger.Logger) *ProductHandler {
	return &ProductHandler{lookup: lookup, timeout: timeout, logger: log}
}

// Get returns product data for a barcode without scoring it
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if !pkgvalidator.IsBarcode(barcode) {
		utils.WriteError(w, apperrors.ValidationError("Invalid barcode", map[string]string{
			"barcode": "must be 8 to 14 digits",
		}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.lookup.Lookup(ctx, barcode)
	if err != nil {
		if !errors.Is(err, product.ErrNotFound) {
			h.logger.WarnWithErr(err, "Product lookup failed")
		}
		utils.WriteError(w, apperrors.ProductNotFound(barcode))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}
