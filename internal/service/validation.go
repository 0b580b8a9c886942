package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/maxviazov/catalog-service/internal/model"
)

func isValidCurrency(c string) bool {
	switch c {
	case model.CurrencyCLP, model.CurrencyPE, model.CurrencyUSD, model.CurrencyEUR:
		return true
	default:
		return false
	}
}

func isValidPriceType(t string) bool {
	switch t {
	case model.PriceTypeOriginal, model.PriceTypeDiscount, model.PriceTypePromotion:
		return true
	default:
		return false
	}
}

// truncatePrice drops everything past two decimals without rounding, so a
// stored value never exceeds what the client sent.
func truncatePrice(v float64) float64 {
	return math.Trunc(v*100) / 100
}

func requireSKU(i int, sku string, ferrs []FieldError) []FieldError {
	if strings.TrimSpace(sku) == "" {
		ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("[%d].sku", i), Message: "must not be empty"})
	}
	return ferrs
}

func validatePrices(i int, prices []model.Price, ferrs []FieldError) []FieldError {
	for j, p := range prices {
		prefix := fmt.Sprintf("[%d].prices[%d]", i, j)
		if !isValidCurrency(p.Currency) {
			ferrs = append(ferrs, FieldError{Field: prefix + ".currency", Message: "must be one of CLP, PE, USD, EUR"})
		}
		if !isValidPriceType(p.Type) {
			ferrs = append(ferrs, FieldError{Field: prefix + ".type", Message: "must be one of ORIGINAL, DISCOUNT, PROMOTION"})
		}
		if p.Value < 0 || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			ferrs = append(ferrs, FieldError{Field: prefix + ".value", Message: "must be a non-negative number"})
		}
	}
	return ferrs
}
