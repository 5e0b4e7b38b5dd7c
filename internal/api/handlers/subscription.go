package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/nutriscan/internal/api/dto"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

// SubscriptionHandler handles plans, subscriptions and quota
type SubscriptionHandler struct {
	service   subscription.Service
	quota     quota.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewSubscriptionHandler(service subscription.Service, q quota.Service, log *logger.Logger, val *validator.Validator) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, quota: q, logger: log, validator: val}
}

// Plans lists the plan catalogue. It is public.
func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.service.Plans())
}

// Get returns the caller's subscription
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sub, err := h.service.Get(r.Context(), userID)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, sub)
}

// Upgrade moves the caller to a paid plan. Payment is out of scope; the
// plan takes effect immediately.
func (h *SubscriptionHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpgradeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sub, err := h.service.Upgrade(r.Context(), userID, subscription.Plan(req.Plan), subscription.BillingCycle(req.BillingCycle))
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, sub)
}

// Cancel returns the caller to the free plan
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), userID); err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription cancelled", subscription.Free())
}

// Quota returns today's scan usage
func (h *SubscriptionHandler) Quota(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sub, err := h.service.Get(r.Context(), userID)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	status, err := h.quota.Status(r.Context(), userID, sub.Plan)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, status)
}
