// Package extract parses raw total-loss report text into a draft vehicle
// record with per-field confidence. It never fails on merely low-quality
// text; ErrNotReportText is returned only when the input is not textual at
// all.
package extract

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/refdata"
)

// ErrNotReportText signals that the input is unusable as report text (empty
// or binary garbage). Callers should not retry at this layer.
var ErrNotReportText = eris.New("extract: input is not usable report text")

// maxBinaryRatio is the fraction of non-printable runes above which input is
// rejected as binary garbage rather than low-quality text.
const maxBinaryRatio = 0.30

// Extractor parses report text using an injected manufacturer table.
type Extractor struct {
	manufacturers *refdata.Manufacturers
	titleCaser    cases.Caser
}

// New creates an Extractor. A nil table uses the built-in manufacturers.
func New(manufacturers *refdata.Manufacturers) *Extractor {
	if manufacturers == nil {
		manufacturers = refdata.DefaultManufacturers()
	}
	return &Extractor{
		manufacturers: manufacturers,
		titleCaser:    cases.Title(language.AmericanEnglish),
	}
}

// Extract parses text into a draft vehicle record. The method tag is
// supplied by the upstream text producer; empty defaults to standard.
func (e *Extractor) Extract(text string, method model.ExtractionMethod) (*model.Vehicle, error) {
	if err := checkUsable(text); err != nil {
		return nil, err
	}
	if method == "" {
		method = model.MethodStandard
	}

	v := &model.Vehicle{
		ReportType:       detectReportType(text),
		ExtractionMethod: method,
		FieldConfidence:  make(map[string]float64),
	}

	e.extractVIN(text, v)
	e.extractYearMakeModel(text, v)
	e.extractMileage(text, v)
	e.extractLocation(text, v)
	e.extractMoney(text, v)
	e.extractEquipment(text, v)
	e.extractCondition(text, v)

	v.ExtractionConfidence = meanConfidence(v.FieldConfidence)

	zap.L().Debug("extraction complete",
		zap.String("report_type", string(v.ReportType)),
		zap.Int("fields", len(v.FieldConfidence)),
		zap.Float64("confidence", v.ExtractionConfidence),
	)
	return v, nil
}

// checkUsable rejects empty input and binary garbage.
func checkUsable(text string) error {
	if strings.TrimSpace(text) == "" {
		return eris.Wrap(ErrNotReportText, "empty input")
	}
	var total, bad int
	for _, r := range text {
		total++
		if r == utf8.RuneError || (!unicode.IsPrint(r) && !unicode.IsSpace(r)) {
			bad++
		}
	}
	if float64(bad)/float64(total) > maxBinaryRatio {
		return eris.Wrap(ErrNotReportText, "binary input")
	}
	return nil
}

func detectReportType(text string) model.ReportType {
	switch {
	case reCCCOne.MatchString(text):
		return model.ReportTypeCCCOne
	case reMitchell.MatchString(text):
		return model.ReportTypeMitchell
	default:
		return model.ReportTypeOther
	}
}

func (e *Extractor) extractVIN(text string, v *model.Vehicle) {
	if m := reVINLabeled.FindStringSubmatch(text); m != nil {
		v.VIN = strings.ToUpper(m[1])
		v.FieldConfidence["vin"] = confidencePrimary
		return
	}
	if m := reVINBare.FindStringSubmatch(text); m != nil {
		v.VIN = strings.ToUpper(m[1])
		v.FieldConfidence["vin"] = confidenceSecondary
	}
}

// extractYearMakeModel prefers explicit labeled fields; otherwise it finds
// the "year + description" line and splits the description into make and
// model using the manufacturer table, longest name first.
func (e *Extractor) extractYearMakeModel(text string, v *model.Vehicle) {
	if m := reYearLabeled.FindStringSubmatch(text); m != nil {
		v.Year, _ = strconv.Atoi(m[1])
		v.FieldConfidence["year"] = confidencePrimary
	}
	if m := reMakeLabeled.FindStringSubmatch(text); m != nil {
		v.Make = strings.TrimSpace(m[1])
		v.FieldConfidence["make"] = confidencePrimary
	}
	if m := reModelLabeled.FindStringSubmatch(text); m != nil {
		v.Model = strings.TrimSpace(m[1])
		v.FieldConfidence["model"] = confidencePrimary
	}
	if m := reTrimLabeled.FindStringSubmatch(text); m != nil {
		v.Trim = strings.TrimSpace(m[1])
		v.FieldConfidence["trim"] = confidencePrimary
	}

	if v.Make != "" && v.Model != "" && v.Year != 0 {
		return
	}

	m := reDescLine.FindStringSubmatch(text)
	if m == nil {
		return
	}

	if v.Year == 0 {
		v.Year, _ = strconv.Atoi(m[1])
		v.FieldConfidence["year"] = confidencePrimary
	}
	if v.Trim == "" && strings.TrimSpace(m[3]) != "" {
		v.Trim = strings.TrimSpace(m[3])
		v.FieldConfidence["trim"] = confidenceSecondary
	}

	desc := strings.TrimSpace(m[2])
	if desc == "" || (v.Make != "" && v.Model != "") {
		return
	}

	if mk, rest, ok := e.manufacturers.MatchPrefix(desc); ok {
		v.Make = mk
		v.Model = rest
		v.FieldConfidence["make"] = confidencePrimary
		if rest != "" {
			v.FieldConfidence["model"] = confidencePrimary
		}
		return
	}

	// No manufacturer matched: first token is the make, remainder the model,
	// at reduced confidence.
	fields := strings.Fields(desc)
	v.Make = e.titleCaser.String(strings.ToLower(fields[0]))
	v.FieldConfidence["make"] = confidenceFallbackMake
	if len(fields) > 1 {
		v.Model = strings.Join(fields[1:], " ")
		v.FieldConfidence["model"] = confidenceFallbackMake
	}
	v.Warnings = append(v.Warnings,
		"make not found in known manufacturers; used first token of description")
}

func (e *Extractor) extractMileage(text string, v *model.Vehicle) {
	if m := reMileagePrimary.FindStringSubmatch(text); m != nil {
		if n, err := parseInt(m[1]); err == nil && n >= 0 {
			v.Mileage = n
			v.FieldConfidence["mileage"] = confidencePrimary
			return
		}
	}
	if m := reMileageSecondary.FindStringSubmatch(text); m != nil {
		if n, err := parseInt(m[1]); err == nil && n >= 0 {
			v.Mileage = n
			v.FieldConfidence["mileage"] = confidenceSecondary
		}
	}
}

func (e *Extractor) extractLocation(text string, v *model.Vehicle) {
	if m := reLocationPrimary.FindStringSubmatch(text); m != nil {
		v.Location = strings.TrimSpace(m[1])
		v.FieldConfidence["location"] = confidencePrimary
		return
	}
	if m := reLocationSecondary.FindStringSubmatch(text); m != nil {
		v.Location = strings.TrimSpace(m[1])
		v.FieldConfidence["location"] = confidenceSecondary
	}
}

// extractMoney applies each field's ordered label list. Cross-field fallback
// is not permitted: a missing "Settlement Value" never borrows a "Market
// Value" line, and vice versa.
func (e *Extractor) extractMoney(text string, v *model.Vehicle) {
	if amount, conf, ok := matchMoney(text, marketValuePatterns); ok {
		v.MarketValue = &amount
		v.FieldConfidence[marketValuePatterns.field] = conf
	}
	if amount, conf, ok := matchMoney(text, settlementValuePatterns); ok {
		v.SettlementValue = &amount
		v.FieldConfidence[settlementValuePatterns.field] = conf
	}
}

func matchMoney(text string, mp moneyPatterns) (float64, float64, bool) {
	for i, re := range mp.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil || amount < 0 {
			continue
		}
		conf := confidencePrimary
		if i > 0 {
			conf = confidenceSecondary
		}
		return amount, conf, true
	}
	return 0, 0, false
}

func (e *Extractor) extractEquipment(text string, v *model.Vehicle) {
	m := reEquipment.FindStringSubmatch(text)
	if m == nil {
		return
	}
	var items []string
	for _, part := range strings.Split(m[1], ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	if len(items) > 0 {
		v.Equipment = items
		v.FieldConfidence["equipment"] = confidencePrimary
	}
}

func (e *Extractor) extractCondition(text string, v *model.Vehicle) {
	if m := reCondition.FindStringSubmatch(text); m != nil {
		v.Condition = strings.ToLower(m[1])
		v.FieldConfidence["condition"] = confidencePrimary
	}
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}

// meanConfidence averages the populated per-field confidences; no fields
// means zero overall confidence.
func meanConfidence(fc map[string]float64) float64 {
	if len(fc) == 0 {
		return 0
	}
	var sum float64
	for _, c := range fc {
		sum += c
	}
	return sum / float64(len(fc))
}
