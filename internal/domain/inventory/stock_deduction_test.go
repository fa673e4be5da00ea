package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
)

func TestDeduct_Suficiente(t *testing.T) {
	entry := inventory.LedgerState{Stock: dec("2"), Unit: entity.UnitKilogram, CostPerUnit: dec("100")}
	res, err := inventory.Deduct(entry, inventory.Quantity{Value: dec("500"), Unit: entity.UnitGram})
	require.NoError(t, err)
	assert.False(t, res.Insufficient)
	assert.True(t, dec("1.5").Equal(res.NewStock))
	assert.True(t, dec("0.5").Equal(res.Consumed))
}

func TestDeduct_Exacto_QuedaEnCero(t *testing.T) {
	entry := inventory.LedgerState{Stock: dec("750"), Unit: entity.UnitGram}
	res, err := inventory.Deduct(entry, inventory.Quantity{Value: dec("0.75"), Unit: entity.UnitKilogram})
	require.NoError(t, err)
	assert.False(t, res.Insufficient)
	assert.True(t, res.NewStock.IsZero())
}

func TestDeduct_Insuficiente(t *testing.T) {
	entry := inventory.LedgerState{Stock: dec("1"), Unit: entity.UnitKilogram}
	res, err := inventory.Deduct(entry, inventory.Quantity{Value: dec("1200"), Unit: entity.UnitGram})
	require.NoError(t, err)
	assert.True(t, res.Insufficient)
	assert.True(t, dec("0.2").Equal(res.Shortfall))
	assert.True(t, dec("1").Equal(res.NewStock), "el stock no cambia cuando no alcanza")
}

// Si el material B no alcanza, A tampoco se descuenta: no hay plan.
func TestPlanDeductions_TodoONada(t *testing.T) {
	a := &inventory.LedgerState{Stock: dec("10"), Unit: entity.UnitKilogram}
	b := &inventory.LedgerState{Stock: dec("100"), Unit: entity.UnitGram}

	plan, err := inventory.PlanDeductions([]inventory.DeductionLine{
		{MaterialName: "A", Entry: a, Consumed: inventory.Quantity{Value: dec("1"), Unit: entity.UnitKilogram}},
		{MaterialName: "B", Entry: b, Consumed: inventory.Quantity{Value: dec("0.5"), Unit: entity.UnitKilogram}},
	})
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	require.Len(t, insuf.Shortfalls, 1)
	assert.Equal(t, "B", insuf.Shortfalls[0].MaterialName)
	assert.True(t, dec("400").Equal(insuf.Shortfalls[0].Missing))
	assert.True(t, dec("10").Equal(a.Stock), "la entrada de A no se modifica")
}

func TestPlanDeductions_SumaLineasDelMismoMaterial(t *testing.T) {
	a := &inventory.LedgerState{Stock: dec("1"), Unit: entity.UnitKilogram}

	_, err := inventory.PlanDeductions([]inventory.DeductionLine{
		{MaterialName: "A", Entry: a, Consumed: inventory.Quantity{Value: dec("600"), Unit: entity.UnitGram}},
		{MaterialName: "A", Entry: a, Consumed: inventory.Quantity{Value: dec("600"), Unit: entity.UnitGram}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	plan, err := inventory.PlanDeductions([]inventory.DeductionLine{
		{MaterialName: "A", Entry: a, Consumed: inventory.Quantity{Value: dec("300"), Unit: entity.UnitGram}},
		{MaterialName: "A", Entry: a, Consumed: inventory.Quantity{Value: dec("0.2"), Unit: entity.UnitKilogram}},
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.True(t, dec("0.5").Equal(plan[0].NewStock))
	assert.Equal(t, entity.UnitKilogram, plan[0].Unit)
}

func TestPlanDeductions_MaterialSinRegistro(t *testing.T) {
	_, err := inventory.PlanDeductions([]inventory.DeductionLine{
		{MaterialName: "Fantasma", Consumed: inventory.Quantity{Value: dec("1"), Unit: entity.UnitGram}},
	})
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.True(t, insuf.Shortfalls[0].Available.IsZero())
}

func TestPlanDeductions_OrdenDePrimeraAparicion(t *testing.T) {
	x := &inventory.LedgerState{Stock: dec("5"), Unit: entity.UnitKilogram}
	y := &inventory.LedgerState{Stock: dec("5"), Unit: entity.UnitKilogram}
	plan, err := inventory.PlanDeductions([]inventory.DeductionLine{
		{MaterialName: "Y", Entry: y, Consumed: inventory.Quantity{Value: dec("1"), Unit: entity.UnitKilogram}},
		{MaterialName: "X", Entry: x, Consumed: inventory.Quantity{Value: dec("2"), Unit: entity.UnitKilogram}},
	})
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "Y", plan[0].MaterialName)
	assert.Equal(t, "X", plan[1].MaterialName)
	assert.True(t, dec("3").Equal(plan[1].NewStock))
}
