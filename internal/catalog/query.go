package catalog

import (
	"encoding/json"
	"slices"
	"strings"

	"dresses/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
)

func (k SortKey) Valid() bool {
	return k == SortByName || k == SortByPrice
}

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

func (d SortDirection) Flip() SortDirection {
	if d == SortAscending {
		return SortDescending
	}
	return SortAscending
}

type PriceBound string

const (
	PriceMin PriceBound = "min"
	PriceMax PriceBound = "max"
)

// PriceRange is inclusive on both ends. Min may exceed Max after an update,
// in which case nothing matches.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func (r PriceRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Min string `json:"min"`
		Max string `json:"max"`
	}{
		Min: r.Min.StringFixed(2),
		Max: r.Max.StringFixed(2),
	})
}

// Query is the shopper's current filter and sort intent
type Query struct {
	Name          string        `json:"name"`
	Color         []string      `json:"color"`
	Size          []string      `json:"size"`
	Type          []string      `json:"type"`
	PriceRange    PriceRange    `json:"price_range"`
	SortKey       SortKey       `json:"sort_key"`
	SortDirection SortDirection `json:"sort_direction"`
}

// DefaultQuery accepts every item in bounds, sorted by name ascending
func DefaultQuery(bounds PriceRange) Query {
	return Query{
		Color:         []string{},
		Size:          []string{},
		Type:          []string{},
		PriceRange:    bounds,
		SortKey:       SortByName,
		SortDirection: SortAscending,
	}
}

func (q Query) clone() Query {
	q.Color = slices.Clone(q.Color)
	q.Size = slices.Clone(q.Size)
	q.Type = slices.Clone(q.Type)
	return q
}

func (q *Query) set(d domain.FilterDimension) *[]string {
	switch d {
	case domain.FilterColor:
		return &q.Color
	case domain.FilterSize:
		return &q.Size
	case domain.FilterType:
		return &q.Type
	default:
		return nil
	}
}

func (q *Query) toggle(d domain.FilterDimension, value string) bool {
	values := q.set(d)
	if values == nil {
		return false
	}

	if i := slices.Index(*values, value); i >= 0 {
		*values = slices.Delete(*values, i, i+1)
	} else {
		*values = append(*values, value)
	}
	return true
}

// Matches reports whether item passes every filter of the query
func (q Query) Matches(item domain.CatalogItem) bool {
	if !strings.Contains(strings.ToLower(item.Name), strings.ToLower(q.Name)) {
		return false
	}

	for _, d := range domain.FilterDimensions {
		accepted := *q.set(d)
		if len(accepted) > 0 && !slices.Contains(accepted, item.Attribute(d)) {
			return false
		}
	}

	return item.Price.GreaterThanOrEqual(q.PriceRange.Min) &&
		item.Price.LessThanOrEqual(q.PriceRange.Max)
}

func (q Query) compare(a, b domain.CatalogItem) int {
	var c int
	switch q.SortKey {
	case SortByPrice:
		c = a.Price.Cmp(b.Price)
	default:
		c = strings.Compare(a.Name, b.Name)
	}

	if q.SortDirection == SortDescending {
		return -c
	}
	return c
}

// Apply filters items and sorts the survivors. The result is a new slice;
// items with equal sort keys keep their input order.
func (q Query) Apply(items []domain.CatalogItem) []domain.CatalogItem {
	result := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if q.Matches(item) {
			result = append(result, item)
		}
	}

	slices.SortStableFunc(result, q.compare)
	return result
}
