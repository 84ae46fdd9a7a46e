package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/refdata"
)

// Year validates a model year. Accepts numeric types or numeric strings.
func Year(value any) model.ValidationResult {
	r := model.ValidationResult{IsValid: true}

	year, ok := toInt(value)
	if !ok {
		r.AddError("year is not numeric")
		return finalize(r)
	}

	current := time.Now().Year()
	if year < MinYear || year > current+1 {
		r.AddError(fmt.Sprintf("year %d outside valid range %d-%d", year, MinYear, current+1))
		return finalize(r)
	}

	if current-year > VeryOldYears {
		r.AddWarning(fmt.Sprintf("vehicle is over %d years old; verify the year", VeryOldYears))
	}
	if year == current+1 {
		r.AddWarning("future model year")
	}
	return finalize(r)
}

// Mileage validates an odometer reading, optionally against the vehicle's
// model year for age-normalized plausibility bands. Pass year 0 when the
// year is unknown to skip the bands.
func Mileage(value any, year int) model.ValidationResult {
	r := model.ValidationResult{IsValid: true}

	miles, ok := toInt(value)
	if !ok {
		r.AddError("mileage is not numeric")
		return finalize(r)
	}
	if miles < 0 {
		r.AddError("mileage cannot be negative")
		return finalize(r)
	}
	if miles >= MileageFailCeiling {
		r.AddError(fmt.Sprintf("mileage %d is implausible (>= %d)", miles, MileageFailCeiling))
		return finalize(r)
	}

	if year > 0 {
		age := time.Now().Year() - year
		if age < 1 {
			age = 1
		}
		perYear := miles / age
		switch {
		case perYear > ExtremeMilesPerYear:
			r.AddError(fmt.Sprintf("mileage averages %d miles/year, beyond plausible use", perYear))
		case perYear > HighMilesPerYear:
			r.AddWarning(fmt.Sprintf("mileage averages %d miles/year, unusually high for vehicle age", perYear))
		case miles > 0 && perYear < LowMilesPerYear:
			r.AddWarning(fmt.Sprintf("mileage averages %d miles/year, unusually low for vehicle age", perYear))
		}
	}
	return finalize(r)
}

// Make validates a manufacturer name against the reference table.
func Make(value string, manufacturers *refdata.Manufacturers) model.ValidationResult {
	r := nameResult(value, "make")
	if strings.TrimSpace(value) != "" && manufacturers != nil && !manufacturers.Contains(value) {
		r.AddWarning(fmt.Sprintf("make %q not found in known manufacturers", strings.TrimSpace(value)))
	}
	return finalize(r)
}

// Model validates a model name.
func Model(value string) model.ValidationResult {
	return finalize(nameResult(value, "model"))
}

// nameResult applies the checks shared by make and model: non-empty,
// minimum length, no embedded digits (a common OCR artifact).
func nameResult(value, field string) model.ValidationResult {
	r := model.ValidationResult{IsValid: true}
	v := strings.TrimSpace(value)

	if v == "" {
		r.AddError(field + " is empty")
		return r
	}
	if len(v) < MinNameLength {
		r.AddWarning(fmt.Sprintf("%s %q is unusually short", field, v))
	}
	if strings.ContainsAny(v, "0123456789") {
		r.AddWarning(fmt.Sprintf("%s %q contains digits; possible OCR artifact", field, v))
	}
	return r
}

// finalize derives the confidence score: errors force 0, otherwise each
// warning deducts WarningDeduction from 100, floored at 0.
func finalize(r model.ValidationResult) model.ValidationResult {
	if len(r.Errors) > 0 {
		r.IsValid = false
		r.Confidence = 0
		return r
	}
	conf := 100 - WarningDeduction*len(r.Warnings)
	if conf < 0 {
		conf = 0
	}
	r.Confidence = conf
	return r
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		i, err := strconv.Atoi(cleaned)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
