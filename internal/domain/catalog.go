package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CatalogItem is one purchasable dress
type CatalogItem struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Color Color           `json:"color"`
	Size  Size            `json:"size"`
	Type  DressType       `json:"type"`
}

// PriceLabel renders the price the way the storefront displays it, e.g. "$59.00"
func (i CatalogItem) PriceLabel() string {
	return "$" + i.Price.StringFixed(2)
}

// MarshalJSON renders the price with two decimals and adds its display label
func (i CatalogItem) MarshalJSON() ([]byte, error) {
	type item CatalogItem
	return json.Marshal(struct {
		item
		Price      string `json:"price"`
		PriceLabel string `json:"price_label"`
	}{
		item:       item(i),
		Price:      i.Price.StringFixed(2),
		PriceLabel: i.PriceLabel(),
	})
}

// Attribute returns the item's value for a multi-select filter dimension
func (i CatalogItem) Attribute(d FilterDimension) string {
	switch d {
	case FilterColor:
		return i.Color.String()
	case FilterSize:
		return i.Size.String()
	case FilterType:
		return i.Type.String()
	default:
		return ""
	}
}

// CatalogDocument is the payload served by the catalog data source
type CatalogDocument struct {
	Dresses []CatalogItem `json:"dresses"`
}
