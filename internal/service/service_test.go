package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dresses/storefront/internal/catalog"
	"dresses/storefront/internal/checkout"
	"dresses/storefront/internal/domain"
	"dresses/storefront/internal/session"

	"github.com/shopspring/decimal"
)

type stubSource struct {
	mu    sync.Mutex
	items []domain.CatalogItem
	err   error
}

func (s *stubSource) FetchDresses(ctx context.Context) ([]domain.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *stubSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func testItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: 1, Name: "Ava", Price: decimal.NewFromInt(50), Color: domain.ColorBlue, Size: domain.SizeSmall, Type: domain.DressTypeCasual},
		{ID: 2, Name: "Bea", Price: decimal.NewFromInt(150), Color: domain.ColorRed, Size: domain.SizeMedium, Type: domain.DressTypeFormal},
	}
}

func newTestService(t *testing.T, src catalog.Source) *Service {
	t.Helper()
	sessions := session.NewManager(func() *catalog.Engine {
		return catalog.NewEngine(src, catalog.DefaultPriceBounds)
	}, time.Minute)

	svc := NewService(sessions)
	t.Cleanup(svc.Close)
	return svc
}

func completeCheckout(t *testing.T, svc *Service, id string) {
	t.Helper()

	values := map[domain.Field]string{
		domain.FieldFirstName:  "Ada",
		domain.FieldLastName:   "Lovelace",
		domain.FieldEmail:      "ada@example.com",
		domain.FieldAddress:    "12 Analytical Row",
		domain.FieldCity:       "London",
		domain.FieldZipCode:    "N1 9GU",
		domain.FieldCardNumber: "4111111111111111",
		domain.FieldExpiryDate: "12/30",
		domain.FieldCVV:        "123",
	}
	for field, value := range values {
		if _, err := svc.SetField(id, field, value); err != nil {
			t.Fatalf("SetField(%s) failed: %v", field, err)
		}
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Advance(id); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	state, err := svc.Submit(id)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !state.Submitted {
		t.Fatal("expected submitted state")
	}
}

func waitLoaded(t *testing.T, svc *Service, id string) catalog.Snapshot {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := svc.Catalog(id)
		if err != nil {
			t.Fatalf("Catalog failed: %v", err)
		}
		if !snap.Loading {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("catalog did not finish loading")
	return catalog.Snapshot{}
}

func TestUnknownSession(t *testing.T) {
	svc := newTestService(t, &stubSource{})

	if _, err := svc.Checkout("nope"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Catalog("nope"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogLockedUntilSubmit(t *testing.T) {
	svc := newTestService(t, &stubSource{items: testItems()})
	id := svc.CreateSession()

	if _, err := svc.Catalog(id); !errors.Is(err, ErrCheckoutIncomplete) {
		t.Errorf("expected ErrCheckoutIncomplete, got %v", err)
	}
	if _, err := svc.SetTextFilter(id, "a"); !errors.Is(err, ErrCheckoutIncomplete) {
		t.Errorf("expected ErrCheckoutIncomplete, got %v", err)
	}
	if _, err := svc.Reload(id); !errors.Is(err, ErrCheckoutIncomplete) {
		t.Errorf("expected ErrCheckoutIncomplete, got %v", err)
	}
}

func TestAdvanceReturnsStateWithErrors(t *testing.T) {
	svc := newTestService(t, &stubSource{})
	id := svc.CreateSession()

	state, err := svc.Advance(id)
	var verrs checkout.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if state.Step != domain.StepPersonal || len(state.Errors) != 3 {
		t.Errorf("unexpected state after failed advance: %+v", state)
	}
}

func TestSubmitLoadsCatalog(t *testing.T) {
	svc := newTestService(t, &stubSource{items: testItems()})
	id := svc.CreateSession()
	completeCheckout(t, svc, id)

	snap := waitLoaded(t, svc, id)
	if snap.LoadError != "" {
		t.Fatalf("unexpected load error: %s", snap.LoadError)
	}
	if len(snap.Items) != 2 || snap.Items[0].Name != "Ava" {
		t.Fatalf("unexpected items: %+v", snap.Items)
	}

	snap, err := svc.ToggleFilter(id, domain.FilterColor, "Red")
	if err != nil {
		t.Fatalf("ToggleFilter failed: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Name != "Bea" {
		t.Errorf("expected only Bea, got %+v", snap.Items)
	}

	if _, err := svc.Retreat(id); !errors.Is(err, checkout.ErrSubmitted) {
		t.Errorf("expected ErrSubmitted after submit, got %v", err)
	}
}

func TestCatalogMutatorErrors(t *testing.T) {
	svc := newTestService(t, &stubSource{items: testItems()})
	id := svc.CreateSession()
	completeCheckout(t, svc, id)
	waitLoaded(t, svc, id)

	if _, err := svc.SetSort(id, catalog.SortKey("size")); !errors.Is(err, catalog.ErrUnknownSortKey) {
		t.Errorf("expected ErrUnknownSortKey, got %v", err)
	}
	if _, err := svc.SetPriceBound(id, catalog.PriceMax, decimal.NewFromInt(999)); !errors.Is(err, catalog.ErrPriceOutOfRange) {
		t.Errorf("expected ErrPriceOutOfRange, got %v", err)
	}

	snap, err := svc.SetSort(id, catalog.SortByPrice)
	if err != nil {
		t.Fatalf("SetSort failed: %v", err)
	}
	snap, err = svc.ToggleSortDirection(id)
	if err != nil {
		t.Fatalf("ToggleSortDirection failed: %v", err)
	}
	if snap.Items[0].Name != "Bea" {
		t.Errorf("expected Bea first in price desc, got %s", snap.Items[0].Name)
	}
}

func TestReloadAfterFailure(t *testing.T) {
	src := &stubSource{items: testItems()}
	src.fail(errors.New("dial tcp: connection refused"))

	svc := newTestService(t, src)
	id := svc.CreateSession()
	completeCheckout(t, svc, id)

	snap := waitLoaded(t, svc, id)
	if snap.LoadError == "" {
		t.Fatal("expected load error")
	}
	if len(snap.Items) != 0 {
		t.Errorf("expected empty view, got %d items", len(snap.Items))
	}

	if _, err := svc.SetTextFilter(id, "bea"); err != nil {
		t.Fatalf("SetTextFilter failed: %v", err)
	}

	src.fail(nil)
	snap, err := svc.Reload(id)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if snap.LoadError != "" {
		t.Errorf("expected load error cleared, got %q", snap.LoadError)
	}
	if len(snap.Items) != 1 || snap.Items[0].Name != "Bea" {
		t.Errorf("expected Bea under existing query, got %+v", snap.Items)
	}
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	svc := newTestService(t, &stubSource{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.RunSweeper(ctx, 10*time.Millisecond)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
