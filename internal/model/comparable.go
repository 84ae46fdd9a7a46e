package model

import "time"

// Comparable is a real-world vehicle listing used as a market reference point
// for the loss vehicle. Created when a user records a listing, mutated on
// edit, deleted explicitly.
type Comparable struct {
	ID          string `json:"id"`
	AppraisalID string `json:"appraisal_id"`

	Source     string `json:"source,omitempty"`
	ListingURL string `json:"listing_url,omitempty"`

	Year      int      `json:"year,omitempty"`
	Make      string   `json:"make,omitempty"`
	Model     string   `json:"model,omitempty"`
	Mileage   int      `json:"mileage,omitempty"`
	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// DistanceFromLoss is miles from the loss vehicle's location, rounded to
	// one decimal. Nil until both locations have been resolved.
	DistanceFromLoss *float64 `json:"distance_from_loss,omitempty"`

	ListPrice     float64 `json:"list_price"`
	AdjustedPrice float64 `json:"adjusted_price"`

	Condition string `json:"condition,omitempty"`
	// Equipment distinguishes nil (listing did not state equipment) from an
	// empty list (listing stated the vehicle has none). The quality scorer
	// relies on that distinction, so no omitempty: an empty list must survive
	// serialization as [] rather than collapsing into null.
	Equipment []string `json:"equipment"`

	QualityScore   float64           `json:"quality_score"`
	ScoreBreakdown *QualityBreakdown `json:"score_breakdown,omitempty"`
	Adjustments    *Adjustments      `json:"adjustments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Adjustments records how a comparable's list price was normalized toward the
// loss vehicle before aggregation.
type Adjustments struct {
	Mileage      float64           `json:"mileage"`
	Condition    float64           `json:"condition"`
	Equipment    float64           `json:"equipment"`
	Total        float64           `json:"total"`
	Explanations map[string]string `json:"explanations,omitempty"`
}

// QualityBreakdown is the factor-by-factor derivation of a comparable's
// quality score. Recomputed whenever the comparable or the loss vehicle
// changes; never persisted independently of the comparable.
type QualityBreakdown struct {
	BaseScore        float64 `json:"base_score"`
	DistancePenalty  float64 `json:"distance_penalty"`
	AgePenalty       float64 `json:"age_penalty"`
	AgeBonus         float64 `json:"age_bonus"`
	MileagePenalty   float64 `json:"mileage_penalty"`
	MileageBonus     float64 `json:"mileage_bonus"`
	EquipmentPenalty float64 `json:"equipment_penalty"`
	EquipmentBonus   float64 `json:"equipment_bonus"`

	// FinalScore = base + bonuses - penalties, floored at 0. Scores above
	// 100 are meaningful: the comparable exceeds the loss vehicle.
	FinalScore float64 `json:"final_score"`

	// Explanations holds one human-readable string per factor, keyed by
	// "distance", "age", "mileage", "equipment".
	Explanations map[string]string `json:"explanations"`
}
