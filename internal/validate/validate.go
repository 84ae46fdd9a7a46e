// Package validate contains pure per-field validators for extracted or
// user-entered vehicle data. Validators never throw for plausible-but-unusual
// values; they degrade via warnings and reduced confidence. Each result
// carries a 0-100 confidence derived from a single deduction table.
package validate

import (
	"fmt"

	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/refdata"
)

// All validates only the keys present in fields and omits absent ones from
// the result: partial input yields partial output, with no defaulting.
// Recognized keys: vin, year, mileage, make, model.
func All(fields map[string]any, manufacturers *refdata.Manufacturers) map[string]model.ValidationResult {
	results := make(map[string]model.ValidationResult, len(fields))

	// The mileage bands need the year when both are present.
	year := 0
	if v, ok := fields["year"]; ok {
		if y, ok := toInt(v); ok {
			year = y
		}
	}

	for key, value := range fields {
		switch key {
		case "vin":
			results[key] = VIN(asString(value))
		case "year":
			results[key] = Year(value)
		case "mileage":
			results[key] = Mileage(value, year)
		case "make":
			results[key] = Make(asString(value), manufacturers)
		case "model":
			results[key] = Model(asString(value))
		}
	}
	return results
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
