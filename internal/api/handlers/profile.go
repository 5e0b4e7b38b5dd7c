package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/nutriscan/internal/api/dto"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

// ProfileHandler manages health profiles
type ProfileHandler struct {
	service   profile.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewProfileHandler(service profile.Service, log *logger.Logger, val *validator.Validator) *ProfileHandler {
	return &ProfileHandler{service: service, logger: log, validator: val}
}

// Get returns the caller's health profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// Update replaces conditions and goals
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), userID, req.Conditions, req.Goals)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// Options lists the condition and goal tags
func (h *ProfileHandler) Options(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, dto.ProfileOptions{
		Conditions: profile.Conditions,
		Goals:      profile.Goals,
	})
}
