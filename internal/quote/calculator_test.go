package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"eventbooking/internal/fault"
)

func TestPriceItems_TotalsInvariant(t *testing.T) {
	items := []ItemInput{
		{Description: "Sonido", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("100.00")},
		{Description: "Luces", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("50.00")},
	}

	priced, totals, err := PriceItems(items, decimal.RequireFromString("20.00"))
	require.NoError(t, err)
	require.Len(t, priced, 2)

	require.True(t, totals.Subtotal.Equal(decimal.RequireFromString("250.00")), "subtotal = %s", totals.Subtotal)
	require.True(t, totals.TaxTotal.Equal(decimal.RequireFromString("32.50")), "taxTotal = %s", totals.TaxTotal)
	require.True(t, totals.Total.Equal(decimal.RequireFromString("302.50")), "total = %s", totals.Total)

	// total == subtotal + taxTotal + additionalCosts, and the aggregates are
	// the sums of the item amounts.
	sumSub := decimal.Zero
	sumTax := decimal.Zero
	for _, it := range priced {
		require.True(t, it.Subtotal.Equal(it.Quantity.Mul(it.UnitPrice).Round(2)))
		require.True(t, it.Tax.Equal(it.Subtotal.Mul(TaxRate).Round(2)))
		require.True(t, it.Total.Equal(it.Subtotal.Add(it.Tax)))
		sumSub = sumSub.Add(it.Subtotal)
		sumTax = sumTax.Add(it.Tax)
	}
	require.True(t, totals.Subtotal.Equal(sumSub))
	require.True(t, totals.TaxTotal.Equal(sumTax))
	require.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxTotal).Add(totals.AdditionalCosts)))
}

func TestPriceItems_RoundsFractionalQuantities(t *testing.T) {
	items := []ItemInput{
		{Description: "Horas extra", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.RequireFromString("33.33")},
	}

	priced, totals, err := PriceItems(items, decimal.Zero)
	require.NoError(t, err)

	// 1.5 x 33.33 = 49.995 -> 50.00; tax 6.50
	require.True(t, priced[0].Subtotal.Equal(decimal.RequireFromString("50.00")), "subtotal = %s", priced[0].Subtotal)
	require.True(t, priced[0].Tax.Equal(decimal.RequireFromString("6.50")), "tax = %s", priced[0].Tax)
	require.True(t, totals.Total.Equal(decimal.RequireFromString("56.50")), "total = %s", totals.Total)
}

func TestPriceItems_Validation(t *testing.T) {
	cases := []struct {
		name            string
		items           []ItemInput
		additionalCosts decimal.Decimal
	}{
		{
			name:            "empty items",
			items:           nil,
			additionalCosts: decimal.Zero,
		},
		{
			name: "zero quantity",
			items: []ItemInput{
				{Description: "x", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(10)},
			},
			additionalCosts: decimal.Zero,
		},
		{
			name: "negative unit price",
			items: []ItemInput{
				{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-1)},
			},
			additionalCosts: decimal.Zero,
		},
		{
			name: "missing description",
			items: []ItemInput{
				{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
			},
			additionalCosts: decimal.Zero,
		},
		{
			name: "negative additional costs",
			items: []ItemInput{
				{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
			},
			additionalCosts: decimal.NewFromInt(-5),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := PriceItems(tc.items, tc.additionalCosts)
			require.Error(t, err)
			require.Equal(t, fault.KindValidation, fault.KindOf(err))
		})
	}
}

func TestCanDecide(t *testing.T) {
	require.True(t, CanDecide(StatusPending))
	require.True(t, CanDecide(StatusInProcess))
	for _, s := range []Status{StatusApproved, StatusRejected, StatusFinished, StatusCancelled} {
		require.False(t, CanDecide(s), "status %s", s)
	}
}
