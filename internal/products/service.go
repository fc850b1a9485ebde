package products

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"finchat/internal/cache"
	"finchat/internal/models"
	"finchat/internal/pkg/finlife"
	"finchat/internal/pkg/maturity"
)

// listings refresh monthly upstream, a few hours of staleness is acceptable
const cacheTTL = 6 * time.Hour

// Service serves product listings cache-first, falling back to the
// database and finally to a live finlife fetch.
type Service struct {
	client *finlife.Client
	cache  cache.Cache
	db     *gorm.DB
}

// NewService builds a Service. cache and db may be nil; lookups then skip
// the corresponding tier.
func NewService(client *finlife.Client, store cache.Cache, db *gorm.DB) *Service {
	return &Service{client: client, cache: store, db: db}
}

func cacheKey(category maturity.Category) string {
	return "products:" + string(category)
}

// List returns the current listings for a category.
func (s *Service) List(ctx context.Context, category maturity.Category) ([]models.Product, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(cacheKey(category)); ok {
			var cached []models.Product
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			log.Printf("discarding unreadable cache entry for %s", category)
		}
	}

	if s.db != nil {
		var stored []models.Product
		err := s.db.WithContext(ctx).Preload("Options").Where("category = ?", string(category)).Find(&stored).Error
		if err != nil {
			return nil, fmt.Errorf("load products from db: %w", err)
		}
		if len(stored) > 0 {
			s.fillCache(category, stored)
			return stored, nil
		}
	}

	return s.Refresh(ctx, category)
}

// Refresh fetches listings live, replaces the stored rows for the category
// and repopulates the cache.
func (s *Service) Refresh(ctx context.Context, category maturity.Category) ([]models.Product, error) {
	fetched, err := s.client.SearchProducts(category)
	if err != nil {
		return nil, fmt.Errorf("fetch %s products: %w", category, err)
	}

	if s.db != nil {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM product_options WHERE product_id IN (SELECT id FROM products WHERE category = ?)", string(category)).Error; err != nil {
				return err
			}
			if err := tx.Where("category = ?", string(category)).Delete(&models.Product{}).Error; err != nil {
				return err
			}
			if len(fetched) == 0 {
				return nil
			}
			return tx.Create(&fetched).Error
		})
		if err != nil {
			return nil, fmt.Errorf("store %s products: %w", category, err)
		}
	}

	s.fillCache(category, fetched)

	return fetched, nil
}

func (s *Service) fillCache(category maturity.Category, products []models.Product) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return
	}

	if err := s.cache.Set(cacheKey(category), string(raw), cacheTTL); err != nil {
		log.Printf("failed to cache %s products: %v", category, err)
	}
}
