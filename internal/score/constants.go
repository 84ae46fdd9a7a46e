package score

// Scoring rule constants. These are the single source of truth for the
// quality-score arithmetic; the calculator contains no magic numbers.
const (
	// BaseScore is the starting score before factor adjustments.
	BaseScore = 100.0

	// Distance: free up to the threshold, then a per-mile penalty, capped.
	DistanceFreeMiles      = 100.0
	DistancePenaltyPerMile = 0.1
	DistanceMaxPenalty     = 20.0

	// Age: per-year penalty in either direction, capped. An exact year
	// match makes no adjustment.
	AgePenaltyPerYear = 2.0
	AgeMaxPenalty     = 10.0

	// Mileage bands by absolute percentage difference from the loss
	// vehicle. Within the close band is a bonus; beyond the far band the
	// penalty is flat, it does not scale further.
	MileageClosePct    = 20.0
	MileageMidPct      = 40.0
	MileageFarPct      = 60.0
	MileageCloseBonus  = 10.0
	MileageMidPenalty  = 5.0
	MileageFarPenalty  = 10.0
	MileageFlatPenalty = 15.0

	// Equipment: per-item penalty for items the loss vehicle has that the
	// comparable lacks, per-item bonus for extras, and a flat bonus that
	// replaces the per-item computation on a perfect set match.
	EquipmentMissingPenalty = 10.0
	EquipmentExtraBonus     = 5.0
	EquipmentExactBonus     = 15.0
)
