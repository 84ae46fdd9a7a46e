// Package valuation turns a set of scored, price-adjusted comparables into a
// single market-value estimate via quality-weighted averaging, with a full
// arithmetic breakdown retained for audit.
package valuation

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/valuation-cli/internal/model"
)

// ErrNoComparables is returned when aggregation is requested with an empty
// comparable set. Computing a market value from nothing is the caller's
// mistake, not a degenerate zero.
var ErrNoComparables = eris.New("valuation: no comparables to aggregate")

// Confidence formula constants. Base confidence rises with comparable count;
// low dispersion of scores and prices adds up to dispersionBonusMax each.
const (
	confidenceCap = 0.95

	dispersionBonusMax = 0.075
	// Coefficients of variation at or below lowCV earn the full bonus,
	// decaying linearly to zero at highCV.
	lowCV  = 0.15
	highCV = 0.50
)

// Aggregate computes the market analysis for a loss vehicle from scored
// comparables. Every comparable must already carry its AdjustedPrice and
// QualityScore. Deterministic for fixed input.
func Aggregate(loss model.Vehicle, comps []model.Comparable) (*model.MarketAnalysis, error) {
	if len(comps) == 0 {
		return nil, ErrNoComparables
	}

	breakdown := model.CalculationBreakdown{
		Contributions: make([]model.Contribution, 0, len(comps)),
	}

	var totalWeighted, totalScore float64
	scores := make([]float64, len(comps))
	prices := make([]float64, len(comps))
	for i, c := range comps {
		weighted := c.AdjustedPrice * c.QualityScore
		totalWeighted += weighted
		totalScore += c.QualityScore
		scores[i] = c.QualityScore
		prices[i] = c.AdjustedPrice

		breakdown.Contributions = append(breakdown.Contributions, model.Contribution{
			ComparableID:  c.ID,
			ListPrice:     c.ListPrice,
			AdjustedPrice: c.AdjustedPrice,
			QualityScore:  c.QualityScore,
			WeightedValue: weighted,
		})
		breakdown.Steps = append(breakdown.Steps,
			fmt.Sprintf("comparable %s: %.2f × %.1f = %.2f", c.ID, c.AdjustedPrice, c.QualityScore, weighted))
	}
	breakdown.TotalWeighted = totalWeighted
	breakdown.TotalScore = totalScore

	var value float64
	if totalScore > 0 {
		value = totalWeighted / totalScore
		breakdown.Steps = append(breakdown.Steps,
			fmt.Sprintf("market value = %.2f / %.1f = %.2f", totalWeighted, totalScore, value))
	} else {
		// Every comparable floored to a zero score; fall back to the plain
		// mean rather than dividing by zero.
		value = stat.Mean(prices, nil)
		breakdown.Steps = append(breakdown.Steps,
			fmt.Sprintf("all quality scores are zero; arithmetic mean of %d adjusted prices = %.2f", len(prices), value))
		zap.L().Warn("aggregate: all comparable scores are zero, using unweighted mean",
			zap.Int("comparables", len(comps)),
		)
	}

	factors := model.ConfidenceFactors{
		ComparableCount: len(comps),
		ScoreVariation:  coefficientOfVariation(scores),
		PriceVariation:  coefficientOfVariation(prices),
	}

	analysis := &model.MarketAnalysis{
		ComparablesCount:      len(comps),
		CalculatedMarketValue: value,
		CalculationMethod:     model.CalculationMethodWeightedAverage,
		ConfidenceLevel:       confidenceLevel(factors),
		ConfidenceFactors:     factors,
		Breakdown:             breakdown,
		GeneratedAt:           time.Now().UTC(),
	}

	if loss.SettlementValue != nil && *loss.SettlementValue > 0 {
		insurance := *loss.SettlementValue
		analysis.InsuranceValue = insurance
		analysis.ValueDifference = value - insurance
		analysis.ValueDifferencePct = (value - insurance) / insurance * 100
		analysis.IsUndervalued = value > insurance
	}

	zap.L().Info("market analysis computed",
		zap.Int("comparables", len(comps)),
		zap.Float64("market_value", value),
		zap.Float64("confidence", analysis.ConfidenceLevel),
		zap.Bool("undervalued", analysis.IsUndervalued),
	)
	return analysis, nil
}

// confidenceLevel combines comparable count and dispersion into a 0..0.95
// confidence. The formula is fixed and documented rather than tuned: count
// sets the base, tight score/price agreement adds the rest.
func confidenceLevel(f model.ConfidenceFactors) float64 {
	var base float64
	switch {
	case f.ComparableCount >= 5:
		base = 0.85
	case f.ComparableCount >= 3:
		base = 0.70
	case f.ComparableCount == 2:
		base = 0.55
	default:
		base = 0.40
	}

	conf := base + dispersionBonus(f.ScoreVariation) + dispersionBonus(f.PriceVariation)
	if conf > confidenceCap {
		conf = confidenceCap
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

// dispersionBonus maps a coefficient of variation to a bonus: full credit at
// or below lowCV, linear decay to zero at highCV.
func dispersionBonus(cv float64) float64 {
	switch {
	case cv <= lowCV:
		return dispersionBonusMax
	case cv >= highCV:
		return 0
	default:
		return dispersionBonusMax * (highCV - cv) / (highCV - lowCV)
	}
}

// coefficientOfVariation returns population stddev / mean, or 0 when the
// mean is zero (avoids NaN for degenerate inputs).
func coefficientOfVariation(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := stat.Mean(xs, nil)
	if mean == 0 {
		return 0
	}
	return stat.PopStdDev(xs, nil) / mean
}
