package dto

// UpgradeRequest moves the caller to a paid plan
type UpgradeRequest struct {
	Plan         string `json:"plan" validate:"required,oneof=premium pro"`
	BillingCycle string `json:"billing_cycle,omitempty" validate:"omitempty,oneof=monthly yearly"`
}
