package model

// ReportType identifies the valuation report vendor a document came from.
type ReportType string

const (
	ReportTypeCCCOne   ReportType = "ccc_one"
	ReportTypeMitchell ReportType = "mitchell"
	ReportTypeOther    ReportType = "other"
)

// ExtractionMethod records how the raw report text was produced upstream.
type ExtractionMethod string

const (
	// MethodStandard means the PDF text layer was sufficient.
	MethodStandard ExtractionMethod = "standard"
	// MethodOCR means image-based text recognition was required.
	MethodOCR ExtractionMethod = "ocr"
	// MethodHybrid means text-layer and OCR output were combined.
	MethodHybrid ExtractionMethod = "hybrid"
)

// Vehicle is the structured record extracted from a total-loss valuation
// report. It is created once per report by the extractor, may be corrected by
// user edits, and is immutable once stored on an appraisal.
type Vehicle struct {
	VIN      string `json:"vin,omitempty"`
	Year     int    `json:"year,omitempty"`
	Make     string `json:"make,omitempty"`
	Model    string `json:"model,omitempty"`
	Trim     string `json:"trim,omitempty"`
	Mileage  int    `json:"mileage,omitempty"`
	Location string `json:"location,omitempty"`

	// Monetary figures as reported by the insurer. Nil when the report did
	// not contain the labeled value.
	MarketValue     *float64 `json:"market_value,omitempty"`
	SettlementValue *float64 `json:"settlement_value,omitempty"`

	ReportType       ReportType       `json:"report_type"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`

	// ExtractionConfidence is the mean of populated per-field confidences,
	// in [0,1].
	ExtractionConfidence float64            `json:"extraction_confidence"`
	FieldConfidence      map[string]float64 `json:"field_confidence,omitempty"`
	Warnings             []string           `json:"warnings,omitempty"`

	// Equipment is nil when the report listed none; order is preserved.
	Equipment []string `json:"equipment,omitempty"`
	Condition string   `json:"condition,omitempty"`
}
