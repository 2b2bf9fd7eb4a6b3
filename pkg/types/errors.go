package types

import "fmt"

// DataIntegrityError marks input that would bias or break the valuation if it
// were silently skipped: a stint referencing an unknown player, a non-positive
// stint duration, or a roster that is not exactly 12 distinct players.
type DataIntegrityError struct {
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation: %s", e.Reason)
}

// NewDataIntegrityError builds a DataIntegrityError with a formatted reason.
func NewDataIntegrityError(format string, args ...interface{}) *DataIntegrityError {
	return &DataIntegrityError{Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleLineupError reports that no 4-player subset of the roster fits
// under the classification budget. It is surfaced as-is, never replaced with
// a partial or arbitrary lineup.
type InfeasibleLineupError struct {
	Team   string
	Budget float64
}

func (e *InfeasibleLineupError) Error() string {
	return fmt.Sprintf("no legal lineup for team %s under classification budget %.1f", e.Team, e.Budget)
}

// NumericInstabilityError reports a regression solve that failed or produced
// non-finite coefficients. The run aborts; coefficients are never zero-filled.
type NumericInstabilityError struct {
	Stage  string
	Detail string
}

func (e *NumericInstabilityError) Error() string {
	return fmt.Sprintf("numeric instability in %s: %s", e.Stage, e.Detail)
}

// ErrorResponse is the JSON error envelope returned by the API.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse is the JSON envelope for side-effect endpoints.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
