package model

// ValidationResult is the outcome of validating a single field. Produced
// fresh on every validation call and never mutated after construction.
type ValidationResult struct {
	IsValid bool `json:"is_valid"`
	// Errors imply IsValid=false. Warnings do not affect validity but each
	// one lowers Confidence.
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	// Confidence is 0..100, derived by deducting fixed penalties per
	// warning/error from 100, floored at 0.
	Confidence int `json:"confidence"`
}

// AddError appends an error and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning appends a warning without affecting validity.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
