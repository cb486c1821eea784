package services

import (
	"fmt"
	"math"
	"strings"

	"invoicegen-backend/models"
)

// Totals are the invoice aggregates derived from its line items.
type Totals struct {
	Subtotal float64
	TaxTotal float64
	Total    float64
}

// CalculateTotals fills in each item's Total and returns the aggregates.
// Amounts are left unrounded.
func CalculateTotals(items []models.LineItem) Totals {
	var t Totals
	for i := range items {
		base := items[i].Quantity * items[i].Price
		tax := base * items[i].Tax / 100
		items[i].Total = base + tax
		t.Subtotal += base
		t.TaxTotal += tax
	}
	t.Total = t.Subtotal + t.TaxTotal
	return t
}

// ApplyTotals recomputes inv's item totals and aggregates in place. It fails
// when any amount overflows, leaving inv's aggregates untouched.
func ApplyTotals(inv *models.Invoice) error {
	t := CalculateTotals(inv.Items)
	if err := ValidateTotals(inv.Items, t); err != nil {
		return err
	}
	inv.Subtotal = t.Subtotal
	inv.TaxTotal = t.TaxTotal
	inv.Total = t.Total
	return nil
}

// ValidateTotals rejects line or invoice amounts that are not finite numbers.
// Such values cannot be encoded as JSON.
func ValidateTotals(items []models.LineItem, t Totals) error {
	for i, it := range items {
		if !finite(it.Quantity, it.Price, it.Tax, it.Total) {
			return validationError(fmt.Sprintf("Item %d: amount is too large", i+1))
		}
	}
	if !finite(t.Subtotal, t.TaxTotal, t.Total) {
		return validationError("Invoice total is too large")
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// ValidateItems rejects items that would produce meaningless totals.
func ValidateItems(items []models.LineItem) error {
	for i, it := range items {
		switch {
		case strings.TrimSpace(it.Name) == "":
			return validationError(fmt.Sprintf("Item %d: name is required", i+1))
		case it.Quantity <= 0:
			return validationError(fmt.Sprintf("Item %d: quantity must be greater than 0", i+1))
		case it.Price < 0:
			return validationError(fmt.Sprintf("Item %d: price must not be negative", i+1))
		case it.Tax < 0 || it.Tax > 100:
			return validationError(fmt.Sprintf("Item %d: tax must be between 0 and 100", i+1))
		}
	}
	return nil
}
