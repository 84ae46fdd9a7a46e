package validate

import (
	"fmt"
	"strings"

	"github.com/sells-group/valuation-cli/internal/model"
)

// vinTransliteration maps VIN letters to their check-digit values per the
// standard algorithm. I, O, and Q are absent: VINs never use them.
var vinTransliteration = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

// vinWeights are the per-position weights; position 9 (index 8) is the check
// digit itself and carries weight 0.
var vinWeights = [17]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// VIN validates a vehicle identification number. Wrong length or characters
// outside the VIN alphabet fail outright. I/O/Q are disallowed in VINs but
// raised as warnings rather than failures because they are common OCR
// misreads of 1/0; a check-digit mismatch is likewise a warning, since the
// rest of the VIN may still be usable.
func VIN(vin string) model.ValidationResult {
	r := model.ValidationResult{IsValid: true}
	vin = strings.ToUpper(strings.TrimSpace(vin))

	if len(vin) != 17 {
		r.AddError(fmt.Sprintf("VIN must be 17 characters, got %d", len(vin)))
		return finalize(r)
	}

	hasIOQ := false
	for i := 0; i < len(vin); i++ {
		c := vin[i]
		switch {
		case c >= '0' && c <= '9':
		case c == 'I' || c == 'O' || c == 'Q':
			hasIOQ = true
		case c >= 'A' && c <= 'Z':
		default:
			r.AddError(fmt.Sprintf("VIN contains invalid character %q at position %d", c, i+1))
		}
	}
	if !r.IsValid {
		return finalize(r)
	}
	if hasIOQ {
		r.AddWarning("VIN contains I/O/Q, which VINs never use; likely an OCR misread of 1/0")
		// Check digit cannot be computed over I/O/Q.
		return finalize(r)
	}

	if !checkDigitValid(vin) {
		r.AddWarning("VIN check digit mismatch; verify against the title or door jamb")
	}
	return finalize(r)
}

// checkDigitValid verifies position 9 using the transliteration-and-weighting
// algorithm: weighted sum mod 11, remainder 10 written as 'X'.
func checkDigitValid(vin string) bool {
	sum := 0
	for i := 0; i < 17; i++ {
		c := vin[i]
		var v int
		if c >= '0' && c <= '9' {
			v = int(c - '0')
		} else {
			v = vinTransliteration[c]
		}
		sum += v * vinWeights[i]
	}

	expected := byte('0' + sum%11)
	if sum%11 == 10 {
		expected = 'X'
	}
	return vin[8] == expected
}
