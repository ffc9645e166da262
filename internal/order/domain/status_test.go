package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	all := []Status{StatusAberto, StatusEmPreparo, StatusPronto, StatusEntregue, StatusCancelado}

	allowed := map[Status][]Status{
		StatusAberto:    {StatusEmPreparo, StatusCancelado},
		StatusEmPreparo: {StatusPronto, StatusEntregue, StatusCancelado},
		StatusPronto:    {StatusEntregue, StatusCancelado},
		StatusEntregue:  {StatusEmPreparo},
		StatusCancelado: {},
	}

	for _, from := range all {
		permitted := make(map[Status]bool)
		for _, to := range allowed[from] {
			permitted[to] = true
		}
		for _, to := range all {
			assert.Equal(t, permitted[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("  em_preparo ")
	require.NoError(t, err)
	assert.Equal(t, StatusEmPreparo, status)

	_, err = ParseStatus("DESCONHECIDO")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusAberto.Editable())
	assert.True(t, StatusEntregue.Editable())
	assert.False(t, StatusCancelado.Editable())

	assert.False(t, StatusAberto.ControlsStock())
	assert.True(t, StatusEmPreparo.ControlsStock())
	assert.True(t, StatusPronto.ControlsStock())
	assert.True(t, StatusEntregue.ControlsStock())
	assert.False(t, StatusCancelado.ControlsStock())

	assert.True(t, StatusEntregue.Terminal())
	assert.True(t, StatusCancelado.Terminal())
	assert.False(t, StatusPronto.Terminal())
}

func TestItemRecalculate(t *testing.T) {
	item := Item{
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("25.00"),
		Discount:  decimal.RequireFromString("3.00"),
		Additions: []ItemAddition{
			{Subtotal: decimal.RequireFromString("5.00")},
		},
	}
	require.NoError(t, item.Recalculate())
	assert.Equal(t, "52.00", item.Subtotal.StringFixed(2))

	item.Discount = decimal.RequireFromString("-1.00")
	assert.ErrorIs(t, item.Recalculate(), ErrDiscountNegative)

	item.Discount = decimal.RequireFromString("56.00")
	assert.ErrorIs(t, item.Recalculate(), ErrDiscountExceedsGross)

	// Discount may consume the whole gross.
	item.Discount = decimal.RequireFromString("55.00")
	require.NoError(t, item.Recalculate())
	assert.True(t, item.Subtotal.IsZero())
}

func TestComplexityLabel(t *testing.T) {
	assert.Equal(t, "Sem itens", ComplexityLabel(0))
	assert.Equal(t, "Pedido minúsculo", ComplexityLabel(2))
	assert.Equal(t, "Pedido pequeno", ComplexityLabel(5))
	assert.Equal(t, "Pedido médio", ComplexityLabel(8))
	assert.Equal(t, "Pedido grande", ComplexityLabel(9))
}

func TestDisplayCodeFallback(t *testing.T) {
	code := "C-001"
	attached := Order{ID: 7, CodeRef: &code}
	assert.Equal(t, "C-001", attached.DisplayCode())

	detached := Order{ID: 7}
	assert.Equal(t, "#7", detached.DisplayCode())
}
