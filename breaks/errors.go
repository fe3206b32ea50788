/*
errors.go - Centralized error types for the break engine

ERROR CATEGORIES:
  1. Configuration errors - bad rule parameters, unknown strategy
  2. Input errors - malformed times, unknown previews
  3. Upstream errors - collaborator failures, returned wrapped and never
     swallowed by the engine

Per-agent soft failures are NOT errors: they are FailedAgent records in the
preview, and the run continues.
*/
package breaks

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownStrategy is returned when a strategy name is not recognised.
	ErrUnknownStrategy = errors.New("unknown distribution strategy")

	// ErrInvalidRuleParameters is returned when a rule's parameters fail validation.
	ErrInvalidRuleParameters = errors.New("invalid rule parameters")

	// ErrUnknownRuleType is returned for a rule_type outside timing/coverage/ordering/distribution.
	ErrUnknownRuleType = errors.New("unknown rule type")

	// ErrInvalidTime is returned for a time-of-day that cannot be parsed.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrInvalidDate is returned for a schedule date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid schedule date")

	// ErrPreviewNotFound is returned when applying a preview that is not cached.
	ErrPreviewNotFound = errors.New("preview not found")

	// ErrInvalidApplyMode is returned for an apply_mode other than all/only_unscheduled.
	ErrInvalidApplyMode = errors.New("invalid apply mode")

	// ErrInvalidShift is returned when breaks are placed for an agent whose
	// shift has no window.
	ErrInvalidShift = errors.New("invalid shift type")

	// ErrAgentNotFound is returned when an agent is not on the roster for a date.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrRuleNotFound is returned when a rule ID does not exist.
	ErrRuleNotFound = errors.New("rule not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RuleParameterError describes which parameter of which rule type is wrong.
type RuleParameterError struct {
	RuleType RuleType
	Message  string
}

func (e *RuleParameterError) Error() string {
	return fmt.Sprintf("%s rule: %s", e.RuleType, e.Message)
}

func (e *RuleParameterError) Unwrap() error {
	return ErrInvalidRuleParameters
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrInvalidRuleParameters) ||
		errors.Is(err, ErrUnknownRuleType) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidApplyMode) ||
		errors.Is(err, ErrInvalidShift)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPreviewNotFound) ||
		errors.Is(err, ErrAgentNotFound) ||
		errors.Is(err, ErrRuleNotFound)
}
