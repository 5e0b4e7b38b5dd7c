package client

import "time"

// User represents a signed-in account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Provider  string    `json:"provider"`
	IsGuest   bool      `json:"is_guest"`
	CreatedAt time.Time `json:"created_at"`
}

// Nutrition holds per-100 g values. Sodium is in milligrams.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Salt     float64 `json:"salt,omitempty"`
}

// Product is a food item resolved from a barcode
type Product struct {
	Barcode     string    `json:"barcode"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	ImageURL    string    `json:"image_url,omitempty"`
	Nutrition   Nutrition `json:"nutrition"`
	Ingredients []string  `json:"ingredients"`
	Allergens   []string  `json:"allergens"`
	NutriScore  string    `json:"nutriscore_grade,omitempty"`
	Source      string    `json:"source"`
}

// NutrientLine is one row of the per-nutrient breakdown
type NutrientLine struct {
	Nutrient string  `json:"nutrient"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Rating   string  `json:"rating"`
}

// ConditionNote explains how a condition or goal affected the score
type ConditionNote struct {
	Tag       string `json:"tag"`
	Triggered bool   `json:"triggered"`
	Delta     int    `json:"delta"`
	Note      string `json:"note"`
}

// Analysis is the health assessment of a product
type Analysis struct {
	Score           int             `json:"score"`
	Level           string          `json:"level"` // good, moderate, poor
	Warnings        []string        `json:"warnings"`
	Recommendations []string        `json:"recommendations"`
	Alternatives    []string        `json:"alternatives"`
	Summary         string          `json:"summary"`
	UpgradeHints    []string        `json:"upgrade_hints,omitempty"`
	Breakdown       []NutrientLine  `json:"breakdown,omitempty"`
	ConditionNotes  []ConditionNote `json:"condition_notes,omitempty"`
}

// Quota describes today's scan usage
type Quota struct {
	Date      string `json:"date"`
	Plan      string `json:"plan"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"` // -1 when unlimited
	Unlimited bool   `json:"unlimited"`
}

// ScanResult is returned by a scan or an ad-hoc analysis
type ScanResult struct {
	EntryID  string   `json:"entry_id,omitempty"`
	Plan     string   `json:"plan"`
	Product  Product  `json:"product"`
	Analysis Analysis `json:"analysis"`
	Quota    Quota    `json:"quota"`
	Insight  string   `json:"insight,omitempty"`
}

// HealthProfile is the user's declared conditions and goals
type HealthProfile struct {
	UserID     string    `json:"user_id"`
	Conditions []string  `json:"conditions"`
	Goals      []string  `json:"goals"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProfileOptions lists the recognized condition and goal tags
type ProfileOptions struct {
	Conditions []string `json:"conditions"`
	Goals      []string `json:"goals"`
}

// HistoryEntry is one recorded scan
type HistoryEntry struct {
	ID        string    `json:"id"`
	ScannedAt time.Time `json:"scanned_at"`
	Product   Product   `json:"product"`
	Analysis  Analysis  `json:"analysis"`
}

// HistoryPage is a page of visible history
type HistoryPage struct {
	Plan       string         `json:"plan"`
	Data       []HistoryEntry `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int64          `json:"total_items"`
	TotalPages int            `json:"total_pages"`
}

// Subscription is the caller's current plan
type Subscription struct {
	Plan         string     `json:"plan"` // free, premium, pro
	BillingCycle string     `json:"billing_cycle,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	Status       string     `json:"status"`
}

// PlanFeatures is the feature table of a plan
type PlanFeatures struct {
	DailyScans    int    `json:"daily_scans"`
	Unlimited     bool   `json:"unlimited"`
	AnalysisDepth string `json:"analysis_depth"`
	Alternatives  bool   `json:"alternatives"`
	History       string `json:"history"`
	HistoryLimit  int    `json:"history_limit"`
	Ads           bool   `json:"ads"`
	Support       string `json:"support"`
	Export        bool   `json:"export"`
	AIInsights    bool   `json:"ai_insights"`
}

// Plan is a catalogue entry
type Plan struct {
	Plan         string       `json:"plan"`
	Name         string       `json:"name"`
	MonthlyPrice float64      `json:"monthly_price"`
	YearlyPrice  float64      `json:"yearly_price"`
	Currency     string       `json:"currency"`
	Features     PlanFeatures `json:"features"`
	Highlights   []string     `json:"highlights"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// ListOptions contains common pagination options
type ListOptions struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}
