package quote

import (
	"github.com/shopspring/decimal"

	"eventbooking/internal/fault"
)

// TaxRate is the flat sales tax applied to every line item.
var TaxRate = decimal.RequireFromString("0.13")

const moneyScale = 2

type ItemInput struct {
	ServiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

type PricedItem struct {
	ItemInput
	TaxRate  decimal.Decimal
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

type Totals struct {
	Subtotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	AdditionalCosts decimal.Decimal
	Total           decimal.Decimal
}

// PriceItems computes per-item and aggregate quote amounts.
//
// Rules:
// - item subtotal = quantity x unit price, item tax = subtotal x TaxRate,
//   item total = subtotal + tax, each rounded to the money scale.
// - quote subtotal/taxTotal are the sums of the item amounts;
//   quote total = subtotal + taxTotal + additionalCosts.
func PriceItems(items []ItemInput, additionalCosts decimal.Decimal) ([]PricedItem, Totals, error) {
	if len(items) == 0 {
		return nil, Totals{}, fault.Validation("quote requires at least one item")
	}
	if additionalCosts.IsNegative() {
		return nil, Totals{}, fault.Validation("additional costs cannot be negative")
	}

	out := make([]PricedItem, 0, len(items))
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for i, it := range items {
		if it.Description == "" {
			return nil, Totals{}, fault.Validationf("item %d: description is required", i+1)
		}
		if it.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, Totals{}, fault.Validationf("item %d: quantity must be > 0", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, Totals{}, fault.Validationf("item %d: unit price cannot be negative", i+1)
		}

		itemSubtotal := it.Quantity.Mul(it.UnitPrice).Round(moneyScale)
		itemTax := itemSubtotal.Mul(TaxRate).Round(moneyScale)
		out = append(out, PricedItem{
			ItemInput: it,
			TaxRate:   TaxRate,
			Subtotal:  itemSubtotal,
			Tax:       itemTax,
			Total:     itemSubtotal.Add(itemTax),
		})
		subtotal = subtotal.Add(itemSubtotal)
		taxTotal = taxTotal.Add(itemTax)
	}

	additionalCosts = additionalCosts.Round(moneyScale)
	totals := Totals{
		Subtotal:        subtotal,
		TaxTotal:        taxTotal,
		AdditionalCosts: additionalCosts,
		Total:           subtotal.Add(taxTotal).Add(additionalCosts),
	}
	return out, totals, nil
}
