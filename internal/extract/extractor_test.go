package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/valuation-cli/internal/model"
)

const cccReport = `CCC ONE Market Valuation Report
Claim: 04-1234567

2019 Land Rover Range Rover Sport | 4D Utility
VIN: SALWR2RV5KA123456
Odometer: 42,000
Loss Vehicle Location: Chicago, IL
Equipment: Sunroof, Leather Seats, Navigation
Condition: Good

Base Value: $48,500.00
Market Value: $10,062.32
Settlement Value: $9,850.00
`

func TestExtract_CCCReport(t *testing.T) {
	v, err := New(nil).Extract(cccReport, model.MethodStandard)
	require.NoError(t, err)

	assert.Equal(t, model.ReportTypeCCCOne, v.ReportType)
	assert.Equal(t, "SALWR2RV5KA123456", v.VIN)
	assert.Equal(t, 2019, v.Year)
	assert.Equal(t, "Land Rover", v.Make)
	assert.Equal(t, "Range Rover Sport", v.Model)
	assert.Equal(t, "4D Utility", v.Trim)
	assert.Equal(t, 42000, v.Mileage)
	assert.Equal(t, "Chicago, IL", v.Location)
	assert.Equal(t, []string{"Sunroof", "Leather Seats", "Navigation"}, v.Equipment)
	assert.Equal(t, "good", v.Condition)

	require.NotNil(t, v.MarketValue)
	assert.InDelta(t, 10062.32, *v.MarketValue, 0.001)
	require.NotNil(t, v.SettlementValue)
	assert.InDelta(t, 9850.00, *v.SettlementValue, 0.001)
}

func TestExtract_MarketValueNeverMatchesBaseValue(t *testing.T) {
	text := "Mitchell Valuation\n2020 Honda Civic\nBase Value: $21,000.00\nMarket Value: $19,750.50\n"

	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)
	require.NotNil(t, v.MarketValue)
	assert.InDelta(t, 19750.50, *v.MarketValue, 0.001)
}

func TestExtract_NoCrossFieldFallback(t *testing.T) {
	// A market value line must never populate the settlement value.
	text := "2020 Honda Civic\nMarket Value: $19,000.00\n"

	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)
	require.NotNil(t, v.MarketValue)
	assert.Nil(t, v.SettlementValue)
}

func TestExtract_SecondaryMoneyLabel(t *testing.T) {
	text := "2020 Honda Civic\nActual Cash Value: $12,000.00\n"

	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)
	require.NotNil(t, v.MarketValue)
	assert.InDelta(t, 12000.0, *v.MarketValue, 0.001)
	assert.InDelta(t, confidenceSecondary, v.FieldConfidence["market_value"], 0.001)
}

func TestExtract_LabeledFieldsPreferred(t *testing.T) {
	text := `Make: Toyota
Model: Camry
Trim: XLE
Year: 2021
Mileage: 18,500
Location: Austin, TX
`
	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)

	assert.Equal(t, model.ReportTypeOther, v.ReportType)
	assert.Equal(t, 2021, v.Year)
	assert.Equal(t, "Toyota", v.Make)
	assert.Equal(t, "Camry", v.Model)
	assert.Equal(t, "XLE", v.Trim)
	assert.Equal(t, 18500, v.Mileage)
	assert.Equal(t, "Austin, TX", v.Location)
	assert.InDelta(t, confidencePrimary, v.FieldConfidence["make"], 0.001)
}

func TestExtract_SecondaryMileagePattern(t *testing.T) {
	text := "2018 Ford F-150\nApproximately 73,000 miles on the vehicle.\n"

	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)
	assert.Equal(t, 73000, v.Mileage)
	assert.InDelta(t, confidenceSecondary, v.FieldConfidence["mileage"], 0.001)
}

func TestExtract_BareVIN(t *testing.T) {
	text := "Mitchell WorkCenter Total Loss\n2015 Honda Accord\n1HGBH41JXMN109186\n"

	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)
	assert.Equal(t, model.ReportTypeMitchell, v.ReportType)
	assert.Equal(t, "1HGBH41JXMN109186", v.VIN)
	assert.InDelta(t, confidenceSecondary, v.FieldConfidence["vin"], 0.001)
}

func TestExtract_UnknownMakeFallback(t *testing.T) {
	text := "2020 Zephyr Roadster GT\nOdometer: 12,000\n"

	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)
	assert.Equal(t, "Zephyr", v.Make)
	assert.Equal(t, "Roadster GT", v.Model)
	assert.InDelta(t, confidenceFallbackMake, v.FieldConfidence["make"], 0.001)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "not found in known manufacturers")
}

func TestExtract_SuperDutySplit(t *testing.T) {
	text := "2020 Ford Super Duty F-250\n"

	v, err := New(nil).Extract(text, "")
	require.NoError(t, err)
	assert.Equal(t, "Ford", v.Make)
	assert.Equal(t, "Super Duty F-250", v.Model)
	assert.Empty(t, v.Warnings)
}

func TestExtract_MethodTag(t *testing.T) {
	v, err := New(nil).Extract("2020 Honda Civic\n", model.MethodOCR)
	require.NoError(t, err)
	assert.Equal(t, model.MethodOCR, v.ExtractionMethod)

	v, err = New(nil).Extract("2020 Honda Civic\n", "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodStandard, v.ExtractionMethod)
}

func TestExtract_EmptyInput(t *testing.T) {
	_, err := New(nil).Extract("", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReportText)

	_, err = New(nil).Extract("   \n\t  ", "")
	assert.ErrorIs(t, err, ErrNotReportText)
}

func TestExtract_BinaryInput(t *testing.T) {
	_, err := New(nil).Extract(strings.Repeat("\x00\x01\x02", 200), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReportText)
}

func TestExtract_LowQualityTextStillSucceeds(t *testing.T) {
	// Garbled but printable text is not an error; it just extracts little.
	v, err := New(nil).Extract("lorem ipsum dolor sit amet", "")
	require.NoError(t, err)
	assert.Empty(t, v.VIN)
	assert.Zero(t, v.Year)
	assert.Zero(t, v.ExtractionConfidence)
}

func TestExtract_OverallConfidenceIsMean(t *testing.T) {
	v, err := New(nil).Extract(cccReport, "")
	require.NoError(t, err)

	var sum float64
	for _, c := range v.FieldConfidence {
		sum += c
	}
	assert.InDelta(t, sum/float64(len(v.FieldConfidence)), v.ExtractionConfidence, 0.0001)
}

func TestDetectReportType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.ReportType
	}{
		{"ccc one", "CCC ONE Valuation", model.ReportTypeCCCOne},
		{"ccc bare", "Produced by CCC", model.ReportTypeCCCOne},
		{"mitchell", "Mitchell WorkCenter", model.ReportTypeMitchell},
		{"other", "Some Insurance Report", model.ReportTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectReportType(tt.text))
		})
	}
}
