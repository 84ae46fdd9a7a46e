package extract

import "regexp"

// Per-field confidence assigned by pattern rank. Primary patterns are the
// exact labels the report vendors print; secondary patterns are looser
// fallbacks that still identify the field unambiguously.
const (
	confidencePrimary   = 0.95
	confidenceSecondary = 0.70
	// confidenceFallbackMake is used when no known manufacturer prefixes the
	// description line and the first token is taken as the make.
	confidenceFallbackMake = 0.50
)

var (
	reVINLabeled = regexp.MustCompile(`(?i)\bVIN\b[:#\s]*([A-Za-z0-9]{17})`)
	reVINBare    = regexp.MustCompile(`\b([A-HJ-NPR-Za-hj-npr-z0-9]{17})\b`)

	// reDescLine matches the vehicle description line: a model year followed
	// by free text, optionally terminated by a "|"-separated trim/body
	// segment. Example: "2019 Land Rover Range Rover Sport | 4D Utility".
	reDescLine = regexp.MustCompile(`(?m)^\s*((?:19|20)\d{2})\s+([A-Za-z][^|\n\r]*)(?:\|\s*([^\n\r]+))?$`)

	reYearLabeled  = regexp.MustCompile(`(?i)\b(?:model\s+)?year\s*[:=]\s*((?:19|20)\d{2})\b`)
	reMakeLabeled  = regexp.MustCompile(`(?im)^\s*make\s*[:=]\s*([^\n\r]+)$`)
	reModelLabeled = regexp.MustCompile(`(?im)^\s*model\s*[:=]\s*([^\n\r]+)$`)
	reTrimLabeled  = regexp.MustCompile(`(?im)^\s*trim\s*[:=]\s*([^\n\r]+)$`)

	reMileagePrimary   = regexp.MustCompile(`(?i)\b(?:odometer|mileage)\s*(?:reading)?\s*[:=]?\s*([\d,]+)\b`)
	reMileageSecondary = regexp.MustCompile(`(?i)\b([\d,]+)\s*miles\b`)

	reLocationPrimary   = regexp.MustCompile(`(?i)\bloss\s+vehicle\s+location\s*[:=]\s*([^\n\r]+)`)
	reLocationSecondary = regexp.MustCompile(`(?im)^\s*location\s*[:=]\s*([^\n\r]+)$`)

	reEquipment = regexp.MustCompile(`(?i)\bequipment\s*[:=]\s*([^\n\r]+)`)
	reCondition = regexp.MustCompile(`(?i)\bcondition\s*[:=]?\s*(excellent|very good|good|fair|poor)\b`)

	reCCCOne   = regexp.MustCompile(`(?i)\bCCC\s*(?:ONE|1)?\b`)
	reMitchell = regexp.MustCompile(`(?i)\bMitchell\b`)
)

// moneyPatterns holds the ordered label list for one monetary field,
// evaluated strictly in order; the first label that matches anywhere in the
// text wins. Labels of one field are never used as fallbacks for another.
type moneyPatterns struct {
	field    string
	patterns []*regexp.Regexp
}

// moneyLabel compiles a label into an amount-capturing pattern. The label
// must match as whole words so "Market Value" never matches "Base Value".
func moneyLabel(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + label + `\b\s*[:=]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`)
}

var marketValuePatterns = moneyPatterns{
	field: "market_value",
	patterns: []*regexp.Regexp{
		moneyLabel(`market\s+value`),
		moneyLabel(`adjusted\s+vehicle\s+value`),
		moneyLabel(`actual\s+cash\s+value`),
	},
}

var settlementValuePatterns = moneyPatterns{
	field: "settlement_value",
	patterns: []*regexp.Regexp{
		moneyLabel(`settlement\s+value`),
		moneyLabel(`total\s+settlement`),
		moneyLabel(`net\s+settlement`),
	},
}
