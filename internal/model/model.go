// Package model contains domain entities and filter shapes used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

// Currency codes accepted for offer prices.
const (
	CurrencyCLP = "CLP"
	CurrencyPE  = "PE"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// Price kinds accepted for offer prices.
const (
	PriceTypeOriginal  = "ORIGINAL"
	PriceTypeDiscount  = "DISCOUNT"
	PriceTypePromotion = "PROMOTION"
)

// Attribute is a value object describing one product characteristic.
// Name and Value are read-side fields resolved from the lookup tables;
// writes only carry the codes.
type Attribute struct {
	NameCode  string `json:"name_code"`
	Name      string `json:"name,omitempty"`
	ValueCode string `json:"value_code"`
	Value     string `json:"value,omitempty"`
}

// Product is identified by its externally supplied SKU.
// IsPublished is a pointer so partial updates can distinguish "not provided"
// from "set to false".
type Product struct {
	SKU              string      `json:"sku"`
	ParentSKU        string      `json:"parent_sku,omitempty"`
	Title            string      `json:"title,omitempty"`
	CategoryCode     string      `json:"category_code,omitempty"`
	CategoryName     string      `json:"category_name,omitempty"`
	Description      string      `json:"description,omitempty"`
	ShortDescription string      `json:"short_description,omitempty"`
	IsPublished      *bool       `json:"is_published,omitempty"`
	Attributes       []Attribute `json:"attributes,omitempty"`
}

// Price is a value object; two prices with equal fields are the same price.
type Price struct {
	Currency string  `json:"currency"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
}

// Offer pairs a product SKU with a server-generated, monotonically increasing
// OfferID (kept as a decimal string end to end). A nil Prices slice means
// "not provided"; full updates translate that into removing the field.
type Offer struct {
	OfferID     string  `json:"offer_id,omitempty"`
	SKU         string  `json:"sku"`
	IsPublished *bool   `json:"is_published,omitempty"`
	Prices      []Price `json:"prices,omitempty"`
}

// ProductFilters narrows product list/count queries. Empty fields are ignored.
type ProductFilters struct {
	SKU          string
	CategoryCode string
}

// OfferFilters narrows offer list/count queries. Empty fields are ignored.
type OfferFilters struct {
	SKU     string
	OfferID string
}

// ProductPatch carries a partial product update. Pointer fields distinguish
// "not provided" from an explicit empty value; only non-nil fields are
// written. Attributes, when present, are upserted by (sku, name_code).
type ProductPatch struct {
	SKU              string      `json:"sku"`
	ParentSKU        *string     `json:"parent_sku,omitempty"`
	Title            *string     `json:"title,omitempty"`
	CategoryCode     *string     `json:"category_code,omitempty"`
	Description      *string     `json:"description,omitempty"`
	ShortDescription *string     `json:"short_description,omitempty"`
	IsPublished      *bool       `json:"is_published,omitempty"`
	Attributes       []Attribute `json:"attributes,omitempty"`
}
