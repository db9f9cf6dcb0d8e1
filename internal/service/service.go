package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dresses/storefront/internal/catalog"
	"dresses/storefront/internal/domain"
	"dresses/storefront/internal/session"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrCheckoutIncomplete = errors.New("catalog is available after checkout is submitted")

// Service applies shopper events to their sessions. Submitting the checkout
// starts the session's catalog load in the background.
type Service struct {
	sessions *session.Manager

	loadCtx    context.Context
	cancelLoad context.CancelFunc
	loads      sync.WaitGroup
}

func NewService(sessions *session.Manager) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		sessions:   sessions,
		loadCtx:    ctx,
		cancelLoad: cancel,
	}
}

func (s *Service) CreateSession() string {
	return s.sessions.Create().ID
}

func (s *Service) Checkout(id string) (domain.StepState, error) {
	return s.withFlow(id, func(*session.Session) error { return nil })
}

func (s *Service) SetField(id string, field domain.Field, value string) (domain.StepState, error) {
	return s.withFlow(id, func(sess *session.Session) error {
		return sess.Flow.SetField(field, value)
	})
}

func (s *Service) Advance(id string) (domain.StepState, error) {
	return s.withFlow(id, func(sess *session.Session) error {
		return sess.Flow.Advance()
	})
}

func (s *Service) Retreat(id string) (domain.StepState, error) {
	return s.withFlow(id, func(sess *session.Session) error {
		return sess.Flow.Retreat()
	})
}

// Submit completes the checkout and kicks off the one catalog load for the session
func (s *Service) Submit(id string) (domain.StepState, error) {
	return s.withFlow(id, func(sess *session.Session) error {
		if err := sess.Flow.Submit(); err != nil {
			return err
		}

		log.Infof("🛍️ Session %s submitted checkout, loading catalog", sess.ID)
		s.startLoad(sess)
		return nil
	})
}

func (s *Service) Catalog(id string) (catalog.Snapshot, error) {
	return s.withCatalog(id, func(*catalog.Engine) error { return nil })
}

func (s *Service) SetTextFilter(id, text string) (catalog.Snapshot, error) {
	return s.withCatalog(id, func(e *catalog.Engine) error {
		e.SetTextFilter(text)
		return nil
	})
}

func (s *Service) ToggleFilter(id string, dimension domain.FilterDimension, value string) (catalog.Snapshot, error) {
	return s.withCatalog(id, func(e *catalog.Engine) error {
		return e.ToggleFilter(dimension, value)
	})
}

func (s *Service) SetPriceBound(id string, which catalog.PriceBound, value decimal.Decimal) (catalog.Snapshot, error) {
	return s.withCatalog(id, func(e *catalog.Engine) error {
		return e.SetPriceBound(which, value)
	})
}

func (s *Service) SetSort(id string, key catalog.SortKey) (catalog.Snapshot, error) {
	return s.withCatalog(id, func(e *catalog.Engine) error {
		return e.SetSort(key)
	})
}

func (s *Service) ToggleSortDirection(id string) (catalog.Snapshot, error) {
	return s.withCatalog(id, func(e *catalog.Engine) error {
		e.ToggleSortDirection()
		return nil
	})
}

// Reload retries the catalog fetch for the session and waits for it.
// A failed fetch is reported through the snapshot's load error, not the returned error.
// The fetch is bound to the service lifetime, so a caller going away does not
// turn into a load error.
func (s *Service) Reload(id string) (catalog.Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	var submitted bool
	_ = sess.Do(func(sess *session.Session) error {
		submitted = sess.Flow.Submitted()
		return nil
	})
	if !submitted {
		return catalog.Snapshot{}, ErrCheckoutIncomplete
	}

	s.loads.Add(1)
	defer s.loads.Done()

	// The session lock is not held during the fetch so other events keep flowing
	if err := sess.Engine.Load(s.loadCtx); errors.Is(err, catalog.ErrLoadInProgress) {
		return catalog.Snapshot{}, err
	}

	return sess.Engine.Snapshot(), nil
}

// RunSweeper expires idle sessions until ctx is done
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("🛑 Session sweeper stopping")
			return nil
		case now := <-ticker.C:
			if removed := s.sessions.Sweep(now); removed > 0 {
				log.Infof("🧹 Expired %d idle sessions, %d active", removed, s.sessions.Len())
			}
		}
	}
}

// Close cancels in-flight catalog loads and waits for them to finish
func (s *Service) Close() {
	s.cancelLoad()
	s.loads.Wait()
}

func (s *Service) startLoad(sess *session.Session) {
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()

		if err := sess.Engine.Load(s.loadCtx); err != nil {
			log.Warnf("⚠️ Catalog load for session %s failed: %v", sess.ID, err)
		}
	}()
}

func (s *Service) withFlow(id string, fn func(*session.Session) error) (domain.StepState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return domain.StepState{}, err
	}

	var state domain.StepState
	err = sess.Do(func(sess *session.Session) error {
		opErr := fn(sess)
		state = sess.Flow.State()
		return opErr
	})
	return state, err
}

func (s *Service) withCatalog(id string, fn func(*catalog.Engine) error) (catalog.Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	var snap catalog.Snapshot
	err = sess.Do(func(sess *session.Session) error {
		if !sess.Flow.Submitted() {
			return ErrCheckoutIncomplete
		}
		if err := fn(sess.Engine); err != nil {
			return fmt.Errorf("session %s: %w", sess.ID, err)
		}
		snap = sess.Engine.Snapshot()
		return nil
	})
	return snap, err
}
