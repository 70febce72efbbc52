// ABOUTME: Product master query facade.
// ABOUTME: Lookups by business key and name substring; no writes, no caching.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trans/sfm-mcp/internal/metrics"
	"github.com/trans/sfm-mcp/internal/models"
	"gorm.io/gorm"
)

const productTable = "sfm_ta_product"

// ProductStore queries sfm_ta_product.
type ProductStore struct {
	db *gorm.DB
}

// ListAll returns every product row in store order.
func (s *ProductStore) ListAll(ctx context.Context) (out []*models.Product, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(productTable, "list_all", start, err) }(time.Now())

	if err = s.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// FindByCode returns the product whose prd_code equals code, or nil when
// there is none. If upstream holds duplicates the lowest id wins.
func (s *ProductStore) FindByCode(ctx context.Context, code string) (p *models.Product, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(productTable, "find_by_code", start, err) }(time.Now())

	var rows []*models.Product
	err = s.db.WithContext(ctx).
		Where("prd_code = ?", code).
		Order("id").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", code, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// SearchByName returns all products whose prd_name contains fragment.
// LIKE wildcards in fragment are matched literally.
func (s *ProductStore) SearchByName(ctx context.Context, fragment string) (out []*models.Product, err error) {
	defer func(start time.Time) { metrics.ObserveQuery(productTable, "search_by_name", start, err) }(time.Now())

	err = s.db.WithContext(ctx).
		Where(`prd_name LIKE ? ESCAPE '\'`, "%"+escapeLike(fragment)+"%").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search products %q: %w", fragment, err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
