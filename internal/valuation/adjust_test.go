package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/valuation-cli/internal/model"
)

func TestAdjustPrice_MileageOnly(t *testing.T) {
	comp := model.Comparable{ListPrice: 20000, Mileage: 60000}
	loss := model.Vehicle{Mileage: 50000}

	price, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	// 10,000 extra miles at $0.05/mile raises the adjusted price by $500.
	assert.InDelta(t, 500.0, adj.Mileage, 0.001)
	assert.InDelta(t, 20500.0, price, 0.001)
	assert.Contains(t, adj.Explanations, "mileage")
}

func TestAdjustPrice_LowerMileageLowersPrice(t *testing.T) {
	comp := model.Comparable{ListPrice: 20000, Mileage: 40000}
	loss := model.Vehicle{Mileage: 50000}

	price, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	assert.InDelta(t, -500.0, adj.Mileage, 0.001)
	assert.InDelta(t, 19500.0, price, 0.001)
}

func TestAdjustPrice_Condition(t *testing.T) {
	comp := model.Comparable{ListPrice: 20000, Condition: "excellent"}
	loss := model.Vehicle{Condition: "good"}

	price, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	// Loss is two grades below the comparable: -2 steps at 3% of list.
	assert.InDelta(t, -1200.0, adj.Condition, 0.001)
	assert.InDelta(t, 18800.0, price, 0.001)
}

func TestAdjustPrice_ConditionCaseInsensitive(t *testing.T) {
	comp := model.Comparable{ListPrice: 10000, Condition: "Very Good"}
	loss := model.Vehicle{Condition: "GOOD"}

	_, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	assert.InDelta(t, -300.0, adj.Condition, 0.001)
}

func TestAdjustPrice_Equipment(t *testing.T) {
	comp := model.Comparable{ListPrice: 15000, Equipment: []string{"sunroof"}}
	loss := model.Vehicle{Equipment: []string{"Sunroof", "Navigation", "Leather Seats"}}

	price, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	// Two loss items missing from the comparable at $250 each.
	assert.InDelta(t, 500.0, adj.Equipment, 0.001)
	assert.InDelta(t, 15500.0, price, 0.001)
}

func TestAdjustPrice_EquipmentExtraReduces(t *testing.T) {
	comp := model.Comparable{ListPrice: 15000, Equipment: []string{"sunroof", "tow package", "roof rack"}}
	loss := model.Vehicle{Equipment: []string{"Sunroof"}}

	_, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	assert.InDelta(t, -500.0, adj.Equipment, 0.001)
}

func TestAdjustPrice_SkipsAbsentFields(t *testing.T) {
	comp := model.Comparable{ListPrice: 20000}
	loss := model.Vehicle{}

	price, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	assert.Zero(t, adj.Mileage)
	assert.Zero(t, adj.Condition)
	assert.Zero(t, adj.Equipment)
	assert.Zero(t, adj.Total)
	assert.Equal(t, 20000.0, price)
	assert.Empty(t, adj.Explanations)
}

func TestAdjustPrice_NilEquipmentSkipped(t *testing.T) {
	comp := model.Comparable{ListPrice: 20000, Equipment: nil}
	loss := model.Vehicle{Equipment: []string{"Sunroof"}}

	_, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	assert.Zero(t, adj.Equipment)
}

func TestAdjustPrice_EmptyEquipmentApplied(t *testing.T) {
	comp := model.Comparable{ListPrice: 20000, Equipment: []string{}}
	loss := model.Vehicle{Equipment: []string{"Sunroof", "Navigation"}}

	_, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	assert.InDelta(t, 500.0, adj.Equipment, 0.001)
}

func TestAdjustPrice_NeverNegative(t *testing.T) {
	comp := model.Comparable{ListPrice: 100, Mileage: 500000}
	loss := model.Vehicle{Mileage: 600000}

	price, _ := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	assert.Equal(t, 0.0, price)
}

func TestAdjustPrice_TotalSumsComponents(t *testing.T) {
	comp := model.Comparable{
		ListPrice: 20000,
		Mileage:   60000,
		Condition: "fair",
		Equipment: []string{},
	}
	loss := model.Vehicle{
		Mileage:   50000,
		Condition: "good",
		Equipment: []string{"Sunroof"},
	}

	price, adj := AdjustPrice(comp, loss, DefaultAdjustmentConfig())
	require.InDelta(t, adj.Mileage+adj.Condition+adj.Equipment, adj.Total, 0.001)
	assert.InDelta(t, comp.ListPrice+adj.Total, price, 0.001)
}
