// Package score computes a comparable's quality score against the loss
// vehicle. Four independent factors adjust a fixed base; a factor whose
// input is absent on the comparable contributes nothing rather than a
// middling value. The final score is floored at zero and deliberately
// uncapped above 100: a comparable can exceed the loss vehicle.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/valuation-cli/internal/model"
)

// Calculate scores a possibly partial comparable against the loss vehicle.
// Identical inputs always yield an identical breakdown.
func Calculate(comp model.Comparable, loss model.Vehicle) model.QualityBreakdown {
	b := model.QualityBreakdown{
		BaseScore:    BaseScore,
		Explanations: make(map[string]string, 4),
	}

	scoreDistance(&b, comp)
	scoreAge(&b, comp, loss)
	scoreMileage(&b, comp, loss)
	scoreEquipment(&b, comp, loss)

	final := b.BaseScore +
		b.AgeBonus + b.MileageBonus + b.EquipmentBonus -
		b.DistancePenalty - b.AgePenalty - b.MileagePenalty - b.EquipmentPenalty
	if final < 0 {
		final = 0
	}
	b.FinalScore = final
	return b
}

func scoreDistance(b *model.QualityBreakdown, comp model.Comparable) {
	if comp.DistanceFromLoss == nil {
		b.Explanations["distance"] = "distance unknown; factor not applied"
		return
	}
	d := *comp.DistanceFromLoss
	if d <= DistanceFreeMiles {
		b.Explanations["distance"] = fmt.Sprintf("%.1f miles away, within the %.0f-mile radius; no penalty", d, DistanceFreeMiles)
		return
	}
	penalty := (d - DistanceFreeMiles) * DistancePenaltyPerMile
	if penalty > DistanceMaxPenalty {
		penalty = DistanceMaxPenalty
		b.Explanations["distance"] = fmt.Sprintf("%.1f miles away; penalty capped at %.0f points", d, DistanceMaxPenalty)
	} else {
		b.Explanations["distance"] = fmt.Sprintf("%.1f miles away, %.1f over the radius; %.1f point penalty", d, d-DistanceFreeMiles, penalty)
	}
	b.DistancePenalty = penalty
}

func scoreAge(b *model.QualityBreakdown, comp model.Comparable, loss model.Vehicle) {
	if comp.Year == 0 || loss.Year == 0 {
		b.Explanations["age"] = "year unknown; factor not applied"
		return
	}
	diff := comp.Year - loss.Year
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		b.Explanations["age"] = "exact year match; no adjustment"
		return
	}
	penalty := float64(diff) * AgePenaltyPerYear
	if penalty > AgeMaxPenalty {
		penalty = AgeMaxPenalty
		b.Explanations["age"] = fmt.Sprintf("%d year(s) apart; penalty capped at %.0f points", diff, AgeMaxPenalty)
	} else {
		b.Explanations["age"] = fmt.Sprintf("%d year(s) apart; %.1f point penalty", diff, penalty)
	}
	b.AgePenalty = penalty
}

func scoreMileage(b *model.QualityBreakdown, comp model.Comparable, loss model.Vehicle) {
	if comp.Mileage == 0 {
		b.Explanations["mileage"] = "mileage unknown; factor not applied"
		return
	}
	if loss.Mileage == 0 {
		// No baseline to compare against; skipping also avoids dividing by
		// zero.
		b.Explanations["mileage"] = "loss vehicle mileage unknown; factor not applied"
		return
	}

	pct := math.Abs(float64(comp.Mileage)-float64(loss.Mileage)) / float64(loss.Mileage) * 100
	switch {
	case pct <= MileageClosePct:
		b.MileageBonus = MileageCloseBonus
		b.Explanations["mileage"] = fmt.Sprintf("mileage within %.0f%% of loss vehicle (%.1f%%); %.0f point bonus", MileageClosePct, pct, MileageCloseBonus)
	case pct <= MileageMidPct:
		b.MileagePenalty = MileageMidPenalty
		b.Explanations["mileage"] = fmt.Sprintf("mileage differs by %.1f%%; %.0f point penalty", pct, MileageMidPenalty)
	case pct <= MileageFarPct:
		b.MileagePenalty = MileageFarPenalty
		b.Explanations["mileage"] = fmt.Sprintf("mileage differs by %.1f%%; %.0f point penalty", pct, MileageFarPenalty)
	default:
		b.MileagePenalty = MileageFlatPenalty
		b.Explanations["mileage"] = fmt.Sprintf("mileage differs by %.1f%%; flat %.0f point penalty", pct, MileageFlatPenalty)
	}
}

// scoreEquipment compares equipment as case-insensitive sets. A nil list on
// the comparable means the listing did not state equipment and disables the
// factor; an empty non-nil list means the listing stated none and is
// compared normally.
func scoreEquipment(b *model.QualityBreakdown, comp model.Comparable, loss model.Vehicle) {
	if comp.Equipment == nil || len(loss.Equipment) == 0 {
		b.Explanations["equipment"] = "equipment not listed; factor not applied"
		return
	}

	lossSet := toSet(loss.Equipment)
	compSet := toSet(comp.Equipment)

	var missing, extra int
	for item := range lossSet {
		if !compSet[item] {
			missing++
		}
	}
	for item := range compSet {
		if !lossSet[item] {
			extra++
		}
	}

	if missing == 0 && extra == 0 {
		b.EquipmentBonus = EquipmentExactBonus
		b.Explanations["equipment"] = fmt.Sprintf("equipment matches exactly; flat %.0f point bonus", EquipmentExactBonus)
		return
	}

	b.EquipmentPenalty = float64(missing) * EquipmentMissingPenalty
	b.EquipmentBonus = float64(extra) * EquipmentExtraBonus
	b.Explanations["equipment"] = fmt.Sprintf("%d item(s) missing (-%.0f), %d extra (+%.0f)",
		missing, b.EquipmentPenalty, extra, b.EquipmentBonus)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key != "" {
			set[key] = true
		}
	}
	return set
}
