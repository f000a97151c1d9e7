package pricing

import "time"

// IssueType classifies a problem encountered while pricing a stay.
type IssueType string

const (
	IssueStopSale    IssueType = "stop_sale"
	IssueSingleStop  IssueType = "single_stop"
	IssueCTA         IssueType = "cta"
	IssueCTD         IssueType = "ctd"
	IssueMinStay     IssueType = "min_stay"
	IssueNoRate      IssueType = "no_rate"
	IssueCapacity    IssueType = "capacity"
	IssueRestriction IssueType = "restriction"
	IssueAPIError    IssueType = "api_error"
)

// Issue is pricing data, not an error: callers inspect the accumulated list
// instead of relying on propagation for expected "no price" cases.
type Issue struct {
	Type    IssueType `json:"type"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

// Hard reports whether an issue of this type forces the whole stay
// unavailable. Soft issues (CTA, CTD, min-stay, single-stop) are surfaced for
// display while the quote remains usable.
func (t IssueType) Hard() bool {
	switch t {
	case IssueStopSale, IssueNoRate, IssueCapacity:
		return true
	default:
		return false
	}
}
