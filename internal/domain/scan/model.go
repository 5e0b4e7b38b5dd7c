package scan

import (
	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
)

// Outcome is what a caller gets back from a successful scan
type Outcome struct {
	EntryID  string            `json:"entry_id,omitempty"`
	Plan     subscription.Plan `json:"plan"`
	Product  product.Product   `json:"product"`
	Analysis analysis.Result   `json:"analysis"`
	Quota    quota.Status      `json:"quota"`
	Insight  string            `json:"insight,omitempty"`
}

// RecordedEvent is published after each successful scan
type RecordedEvent struct {
	EntryID   string            `json:"entry_id"`
	UserID    string            `json:"user_id"`
	Barcode   string            `json:"barcode"`
	Source    string            `json:"source"`
	Plan      subscription.Plan `json:"plan"`
	Score     int               `json:"score"`
	Level     analysis.Level    `json:"level"`
	ScannedAt string            `json:"scanned_at"`
}

// EventScanRecorded is the routing key of RecordedEvent
const EventScanRecorded = "scan.recorded"
