package repository

import (
	"context"
	"fmt"

	"dresses/storefront/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type DressRepository interface {
	FetchDresses(ctx context.Context) ([]domain.CatalogItem, error)
}

type dressRepository struct {
	db *pgxpool.Pool
}

func NewDressRepository(db *pgxpool.Pool) DressRepository {
	return &dressRepository{
		db: db,
	}
}

func (r *dressRepository) FetchDresses(ctx context.Context) ([]domain.CatalogItem, error) {
	query := `
	SELECT id, name, price::text, color, size, type
	FROM dresses
	ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dresses: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var (
			item  domain.CatalogItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.Name, &price, &item.Color, &item.Size, &item.Type); err != nil {
			return nil, fmt.Errorf("failed to scan dress: %w", err)
		}

		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price %q of dress %d: %w", price, item.ID, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dresses: %w", err)
	}

	return items, nil
}
