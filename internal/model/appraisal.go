package model

import "time"

// AppraisalStatus tracks an appraisal through its lifecycle.
type AppraisalStatus string

const (
	AppraisalStatusDraft    AppraisalStatus = "draft"
	AppraisalStatusReviewed AppraisalStatus = "reviewed"
	AppraisalStatusComplete AppraisalStatus = "complete"
)

// Appraisal is one valuation case: the loss vehicle plus its market analysis.
type Appraisal struct {
	ID       string          `json:"id"`
	Vehicle  Vehicle         `json:"vehicle"`
	Analysis *MarketAnalysis `json:"analysis,omitempty"`
	Status   AppraisalStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
