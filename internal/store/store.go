package store

import (
	"context"

	"github.com/sells-group/valuation-cli/internal/model"
)

// AppraisalFilter specifies criteria for listing appraisals.
type AppraisalFilter struct {
	Status model.AppraisalStatus `json:"status,omitempty"`
	VIN    string                `json:"vin,omitempty"`
	Limit  int                   `json:"limit,omitempty"`
	Offset int                   `json:"offset,omitempty"`
}

// Store defines the persistence interface for appraisals and their
// comparables.
type Store interface {
	// Appraisals
	CreateAppraisal(ctx context.Context, vehicle model.Vehicle) (*model.Appraisal, error)
	GetAppraisal(ctx context.Context, id string) (*model.Appraisal, error)
	ListAppraisals(ctx context.Context, filter AppraisalFilter) ([]model.Appraisal, error)
	UpdateAppraisalStatus(ctx context.Context, id string, status model.AppraisalStatus) error
	UpdateAppraisalVehicle(ctx context.Context, id string, vehicle model.Vehicle) error
	UpdateAppraisalAnalysis(ctx context.Context, id string, analysis *model.MarketAnalysis) error
	DeleteAppraisal(ctx context.Context, id string) error

	// Comparables
	AddComparable(ctx context.Context, comp model.Comparable) (*model.Comparable, error)
	GetComparable(ctx context.Context, id string) (*model.Comparable, error)
	ListComparables(ctx context.Context, appraisalID string) ([]model.Comparable, error)
	UpdateComparable(ctx context.Context, comp model.Comparable) error
	DeleteComparable(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
