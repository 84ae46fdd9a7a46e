package valuation

import (
	"fmt"
	"strings"

	"github.com/sells-group/valuation-cli/internal/model"
)

// AdjustmentConfig holds the rates used to normalize a comparable's list
// price toward the loss vehicle before aggregation.
type AdjustmentConfig struct {
	// MileageRatePerMile is the dollar value of one odometer mile of
	// difference.
	MileageRatePerMile float64
	// ConditionStepPct is the fraction of list price per condition grade
	// step between the vehicles.
	ConditionStepPct float64
	// EquipmentItemValue is the dollar value of one equipment item.
	EquipmentItemValue float64
}

// DefaultAdjustmentConfig returns the standard rates.
func DefaultAdjustmentConfig() AdjustmentConfig {
	return AdjustmentConfig{
		MileageRatePerMile: 0.05,
		ConditionStepPct:   0.03,
		EquipmentItemValue: 250,
	}
}

// conditionRank orders the condition grades used on listings and reports.
var conditionRank = map[string]int{
	"poor":      0,
	"fair":      1,
	"good":      2,
	"very good": 3,
	"excellent": 4,
}

// AdjustPrice derives a comparable's adjusted price: the price an equivalent
// of the loss vehicle would command. Each delta is applied only when both
// sides carry the relevant field. The result is never negative.
func AdjustPrice(comp model.Comparable, loss model.Vehicle, cfg AdjustmentConfig) (float64, model.Adjustments) {
	adj := model.Adjustments{Explanations: make(map[string]string, 3)}

	// More miles on the comparable means its price understates a
	// loss-equivalent vehicle, so the adjustment is positive.
	if comp.Mileage > 0 && loss.Mileage > 0 {
		delta := float64(comp.Mileage-loss.Mileage) * cfg.MileageRatePerMile
		adj.Mileage = delta
		adj.Explanations["mileage"] = fmt.Sprintf("%+d miles vs loss vehicle at $%.2f/mile: %+.2f",
			comp.Mileage-loss.Mileage, cfg.MileageRatePerMile, delta)
	}

	lossRank, lossOK := conditionRank[strings.ToLower(strings.TrimSpace(loss.Condition))]
	compRank, compOK := conditionRank[strings.ToLower(strings.TrimSpace(comp.Condition))]
	if lossOK && compOK && lossRank != compRank {
		delta := float64(lossRank-compRank) * cfg.ConditionStepPct * comp.ListPrice
		adj.Condition = delta
		adj.Explanations["condition"] = fmt.Sprintf("condition %s vs %s (%+d step(s) at %.0f%% of list): %+.2f",
			comp.Condition, loss.Condition, lossRank-compRank, cfg.ConditionStepPct*100, delta)
	}

	if comp.Equipment != nil && len(loss.Equipment) > 0 {
		missing, extra := equipmentDiff(loss.Equipment, comp.Equipment)
		if missing != 0 || extra != 0 {
			delta := float64(missing-extra) * cfg.EquipmentItemValue
			adj.Equipment = delta
			adj.Explanations["equipment"] = fmt.Sprintf("%d missing, %d extra item(s) at $%.0f each: %+.2f",
				missing, extra, cfg.EquipmentItemValue, delta)
		}
	}

	adj.Total = adj.Mileage + adj.Condition + adj.Equipment
	price := comp.ListPrice + adj.Total
	if price < 0 {
		price = 0
	}
	return price, adj
}

// equipmentDiff counts loss-vehicle items the comparable lacks and
// comparable items the loss vehicle lacks, case-insensitively.
func equipmentDiff(lossEquip, compEquip []string) (missing, extra int) {
	lossSet := make(map[string]bool, len(lossEquip))
	for _, item := range lossEquip {
		lossSet[strings.ToLower(strings.TrimSpace(item))] = true
	}
	compSet := make(map[string]bool, len(compEquip))
	for _, item := range compEquip {
		compSet[strings.ToLower(strings.TrimSpace(item))] = true
	}
	for item := range lossSet {
		if item != "" && !compSet[item] {
			missing++
		}
	}
	for item := range compSet {
		if item != "" && !lossSet[item] {
			extra++
		}
	}
	return missing, extra
}
