// Package condition evaluates document gating conditions against runtime settings.
package condition

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"mercator-hq/condconfig/pkg/document"
	"mercator-hq/condconfig/pkg/settings"
)

// DefaultMatchTimeout bounds a single pattern match.
const DefaultMatchTimeout = time.Second

// FailureReason explains why an evaluation was not satisfied.
type FailureReason string

const (
	// ReasonNone is used when the evaluation is satisfied.
	ReasonNone FailureReason = ""

	// ReasonSettingMissing means the setting is absent or empty.
	ReasonSettingMissing FailureReason = "setting_missing"

	// ReasonPatternMismatch means the setting value does not match the pattern.
	ReasonPatternMismatch FailureReason = "pattern_mismatch"
)

// Evaluation is the result of evaluating a ConditionSet.
type Evaluation struct {
	// Satisfied is true when every non-empty condition passed
	Satisfied bool

	// Checked is the number of non-empty conditions evaluated before stopping
	Checked int

	// Failed is the first condition that did not pass (nil when satisfied)
	Failed *document.Condition

	// Reason tells why Failed did not pass
	Reason FailureReason

	// Value is the setting value Failed was tested against, if any
	Value string
}

// InvalidPatternError reports a condition pattern that is not a valid regular expression
// or that could not finish matching within the match timeout.
type InvalidPatternError struct {
	Setting string
	Pattern string
	Cause   error
}

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q for setting %q: %v", e.Pattern, e.Setting, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *InvalidPatternError) Unwrap() error {
	return e.Cause
}

// Evaluator checks conditions against a settings provider.
type Evaluator struct {
	settings     settings.Provider
	matchTimeout time.Duration
}

// NewEvaluator creates an evaluator reading from provider.
func NewEvaluator(provider settings.Provider) *Evaluator {
	return &Evaluator{settings: provider, matchTimeout: DefaultMatchTimeout}
}

// SetMatchTimeout changes the per-pattern match timeout. Zero or less disables it.
func (e *Evaluator) SetMatchTimeout(d time.Duration) {
	e.matchTimeout = d
}

// Evaluate tests conditions in order and stops at the first failure.
// Entries with an empty setting name or pattern are skipped. An empty set is satisfied.
// Each setting is read from "AppSettings:<name>" and matched with .NET regular
// expression syntax (lookaround and backreferences included); the match is
// unanchored unless the pattern anchors itself.
func (e *Evaluator) Evaluate(conditions document.ConditionSet) (Evaluation, error) {
	result := Evaluation{Satisfied: true}

	for i := range conditions {
		c := conditions[i]
		if c.Empty() {
			continue
		}
		result.Checked++

		value, ok := e.settings.Lookup(settings.AppSettingKey(c.Setting))
		if !ok || value == "" {
			return Evaluation{
				Checked: result.Checked,
				Failed:  &c,
				Reason:  ReasonSettingMissing,
			}, nil
		}

		re, err := regexp2.Compile(c.Pattern, regexp2.None)
		if err != nil {
			return Evaluation{Checked: result.Checked, Failed: &c}, &InvalidPatternError{
				Setting: c.Setting,
				Pattern: c.Pattern,
				Cause:   err,
			}
		}
		if e.matchTimeout > 0 {
			re.MatchTimeout = e.matchTimeout
		}

		matched, err := re.MatchString(value)
		if err != nil {
			return Evaluation{Checked: result.Checked, Failed: &c}, &InvalidPatternError{
				Setting: c.Setting,
				Pattern: c.Pattern,
				Cause:   err,
			}
		}
		if !matched {
			return Evaluation{
				Checked: result.Checked,
				Failed:  &c,
				Reason:  ReasonPatternMismatch,
				Value:   value,
			}, nil
		}
	}

	return result, nil
}

// Match reports whether conditions are satisfied, treating invalid patterns as unsatisfied.
func (e *Evaluator) Match(conditions document.ConditionSet) bool {
	result, err := e.Evaluate(conditions)
	return err == nil && result.Satisfied
}
