package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dresses/storefront/internal/config"
	"dresses/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// DressClient fetches the catalog document over HTTP
type DressClient interface {
	FetchDresses(ctx context.Context) ([]domain.CatalogItem, error)
}

type dressClient struct {
	rl         ratelimit.Limiter
	url        string
	httpClient *resty.Client
}

func NewDressClient(cfg config.CatalogConfig) DressClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &dressClient{
		rl:         rl,
		url:        cfg.URL,
		httpClient: client,
	}
}

func (c *dressClient) FetchDresses(ctx context.Context) ([]domain.CatalogItem, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.url)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch dresses: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch dresses: HTTP error: %s", resp.Status())
	}

	items, err := DecodeCatalog([]byte(resp.String()))
	if err != nil {
		return nil, err
	}

	log.Debugf("Fetched %d dresses from %s", len(items), c.url)
	return items, nil
}

// DecodeCatalog parses a {"dresses": [...]} document. A missing dresses field,
// a negative price or a repeated id make the payload malformed.
func DecodeCatalog(data []byte) ([]domain.CatalogItem, error) {
	var payload struct {
		Dresses *[]domain.CatalogItem `json:"dresses"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("malformed catalog payload: %w", err)
	}
	if payload.Dresses == nil {
		return nil, fmt.Errorf("malformed catalog payload: missing dresses field")
	}

	items := *payload.Dresses
	if err := validateItems(items); err != nil {
		return nil, fmt.Errorf("malformed catalog payload: %w", err)
	}
	return items, nil
}

func validateItems(items []domain.CatalogItem) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate dress id %d", item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Price.IsNegative() {
			return fmt.Errorf("dress %d has negative price %s", item.ID, item.Price)
		}
	}
	return nil
}
