package validate

// Quantitative validation rules, kept in one place so they can be unit
// tested in isolation from parsing. Confidence starts at 100; every warning
// deducts WarningDeduction points, every error drops the field to 0.
const (
	// WarningDeduction is the fixed confidence penalty per warning. One
	// table for all fields; the source material used inconsistent magnitudes
	// per field, a single value is easier to reason about and test.
	WarningDeduction = 15

	// MinYear is the oldest accepted model year.
	MinYear = 1900
	// VeryOldYears triggers a "verify" warning for vehicles older than this.
	VeryOldYears = 50

	// MileageFailCeiling is the absolute odometer reading treated as
	// implausible.
	MileageFailCeiling = 1_000_000
	// LowMilesPerYear and HighMilesPerYear bound the age-normalized band
	// that passes without a warning.
	LowMilesPerYear  = 2_000
	HighMilesPerYear = 25_000
	// ExtremeMilesPerYear is the age-normalized rate beyond which mileage
	// fails outright rather than warning.
	ExtremeMilesPerYear = 60_000

	// MinNameLength is the shortest make/model that passes without a
	// short-value warning.
	MinNameLength = 2
)
