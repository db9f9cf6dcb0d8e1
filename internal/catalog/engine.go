package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"dresses/storefront/internal/domain"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrLoadInProgress  = errors.New("catalog load already in progress")
	ErrUnknownSortKey  = errors.New("unknown sort key")
	ErrUnknownBound    = errors.New("unknown price bound")
	ErrUnknownFilter   = errors.New("unknown filter dimension")
	ErrPriceOutOfRange = errors.New("price outside catalog bounds")
)

// Source supplies the catalog item list
type Source interface {
	FetchDresses(ctx context.Context) ([]domain.CatalogItem, error)
}

// DefaultPriceBounds matches the storefront price slider
var DefaultPriceBounds = PriceRange{
	Min: decimal.Zero,
	Max: decimal.NewFromInt(200),
}

// Snapshot is the read-only state handed to the rendering layer
type Snapshot struct {
	Query     Query                `json:"query"`
	Items     []domain.CatalogItem `json:"items"`
	Total     int                  `json:"total"`
	Loading   bool                 `json:"loading"`
	LoadError string               `json:"load_error,omitempty"`
}

// Engine owns the fetched catalog and the current query, and keeps the
// derived view in step with both. Every mutation recomputes the view in full.
type Engine struct {
	source Source
	bounds PriceRange

	mu        sync.RWMutex
	items     []domain.CatalogItem
	query     Query
	view      []domain.CatalogItem
	loading   bool
	inFlight  bool
	loadError string
}

func NewEngine(source Source, bounds PriceRange) *Engine {
	return &Engine{
		source:  source,
		bounds:  bounds,
		query:   DefaultQuery(bounds),
		view:    []domain.CatalogItem{},
		loading: true,
	}
}

// Load fetches the item list. On failure the list is emptied and the error
// message is kept until the next successful Load.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrLoadInProgress
	}
	e.inFlight = true
	e.loading = true
	e.recompute()
	e.mu.Unlock()

	items, err := e.source.FetchDresses(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.inFlight = false
	e.loading = false

	if err != nil {
		e.items = nil
		e.loadError = err.Error()
		e.recompute()
		log.Errorf("❌ Failed to load catalog: %v", err)
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	e.items = slices.Clone(items)
	e.loadError = ""
	e.recompute()
	log.Infof("✅ Catalog loaded with %d items", len(e.items))
	return nil
}

func (e *Engine) SetTextFilter(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.query.Name = text
	e.recompute()
}

// ToggleFilter adds value to the dimension's accepted set, or removes it if already there
func (e *Engine) ToggleFilter(dimension domain.FilterDimension, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.query.toggle(dimension, value) {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, dimension)
	}
	e.recompute()
	return nil
}

// SetPriceBound overwrites one end of the price range without reordering against the other
func (e *Engine) SetPriceBound(which PriceBound, value decimal.Decimal) error {
	if value.LessThan(e.bounds.Min) || value.GreaterThan(e.bounds.Max) {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrPriceOutOfRange, value, e.bounds.Min, e.bounds.Max)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch which {
	case PriceMin:
		e.query.PriceRange.Min = value
	case PriceMax:
		e.query.PriceRange.Max = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBound, which)
	}
	e.recompute()
	return nil
}

// SetSort flips the direction when key is already selected, otherwise selects key ascending
func (e *Engine) SetSort(key SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if key == e.query.SortKey {
		e.query.SortDirection = e.query.SortDirection.Flip()
	} else {
		e.query.SortKey = key
		e.query.SortDirection = SortAscending
	}
	e.recompute()
	return nil
}

func (e *Engine) ToggleSortDirection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.query.SortDirection = e.query.SortDirection.Flip()
	e.recompute()
}

// View returns a copy of the derived view. It is empty while loading or after a failed load.
func (e *Engine) View() []domain.CatalogItem {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Clone(e.view)
}

func (e *Engine) Query() Query {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.query.clone()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Snapshot{
		Query:     e.query.clone(),
		Items:     slices.Clone(e.view),
		Total:     len(e.items),
		Loading:   e.loading,
		LoadError: e.loadError,
	}
}

// recompute must be called with mu held for writing
func (e *Engine) recompute() {
	if e.loading || e.loadError != "" {
		e.view = []domain.CatalogItem{}
		return
	}
	e.view = e.query.Apply(e.items)
}
