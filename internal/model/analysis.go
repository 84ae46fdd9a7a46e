package model

import "time"

// CalculationMethodWeightedAverage is the only aggregation method implemented.
const CalculationMethodWeightedAverage = "quality-weighted-average"

// MarketAnalysis is the aggregated valuation result for one appraisal. It is
// regenerated whenever the comparables or the loss vehicle change, never
// incrementally updated.
type MarketAnalysis struct {
	ComparablesCount      int     `json:"comparables_count"`
	CalculatedMarketValue float64 `json:"calculated_market_value"`
	CalculationMethod     string  `json:"calculation_method"`

	ConfidenceLevel   float64           `json:"confidence_level"`
	ConfidenceFactors ConfidenceFactors `json:"confidence_factors"`

	// InsuranceValue is the insurer-offered settlement figure the calculated
	// value is compared against.
	InsuranceValue     float64 `json:"insurance_value"`
	ValueDifference    float64 `json:"value_difference"`
	ValueDifferencePct float64 `json:"value_difference_pct"`
	// IsUndervalued is true when the calculated market value exceeds the
	// insurance figure.
	IsUndervalued bool `json:"is_undervalued"`

	Breakdown   CalculationBreakdown `json:"calculation_breakdown"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// ConfidenceFactors are the inputs to the deterministic confidence formula.
type ConfidenceFactors struct {
	ComparableCount int `json:"comparable_count"`
	// ScoreVariation and PriceVariation are coefficients of variation
	// (population stddev / mean); lower means tighter agreement.
	ScoreVariation float64 `json:"score_variation"`
	PriceVariation float64 `json:"price_variation"`
}

// CalculationBreakdown records each comparable's contribution and the
// arithmetic steps, for audit and explainability.
type CalculationBreakdown struct {
	Contributions []Contribution `json:"contributions"`
	Steps         []string       `json:"steps"`
	TotalWeighted float64        `json:"total_weighted"`
	TotalScore    float64        `json:"total_score"`
}

// Contribution is one comparable's line in the calculation breakdown.
type Contribution struct {
	ComparableID  string  `json:"comparable_id"`
	ListPrice     float64 `json:"list_price"`
	AdjustedPrice float64 `json:"adjusted_price"`
	QualityScore  float64 `json:"quality_score"`
	WeightedValue float64 `json:"weighted_value"`
}
