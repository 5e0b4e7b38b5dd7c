package quota

// DateLayout is the calendar-day format of counters
const DateLayout = "2006-01-02"

// Counter is the stored scans-used-today record
type Counter struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Status describes a user's quota for the current day
type Status struct {
	Date      string `json:"date"`
	Plan      string `json:"plan"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}

// Limits are the daily ceilings. Pro is always unlimited.
type Limits struct {
	Free    int
	Premium int
}

// DefaultLimits are the ceilings used when nothing is configured
var DefaultLimits = Limits{Free: 5, Premium: 50}
