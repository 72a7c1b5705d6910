package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmgilman/go/errors"

	"go-aside-cache/internal/cache"
	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
	"go-aside-cache/internal/pipeline"
)

// Entity is the cache key namespace of products
const Entity = "product"

// GetProductQuery reads one product
type GetProductQuery struct {
	ID     uuid.UUID          `validate:"required"`
	Bypass bool               `validate:"-"`
	Policy models.CachePolicy `validate:"-"`
}

var _ pipeline.Operation = GetProductQuery{}

func (q GetProductQuery) CacheKey() string                { return cache.EntityKey(Entity, q.ID) }
func (q GetProductQuery) BypassCache() bool               { return q.Bypass }
func (q GetProductQuery) CachePolicy() models.CachePolicy { return q.Policy }

// ListProductsQuery reads one page of products
type ListProductsQuery struct {
	Filter models.ProductFilter
	Bypass bool               `validate:"-"`
	Policy models.CachePolicy `validate:"-"`
}

var (
	_ pipeline.Operation = ListProductsQuery{}
	_ pipeline.Listing   = ListProductsQuery{}
)

func (q ListProductsQuery) CacheKey() string                { return cache.CollectionKey(Entity) }
func (q ListProductsQuery) BypassCache() bool               { return q.Bypass }
func (q ListProductsQuery) CachePolicy() models.CachePolicy { return q.Policy }
func (q ListProductsQuery) CollectionKey() string           { return cache.CollectionKey(Entity) }
func (q ListProductsQuery) ListParams() interface{}         { return q.Filter }

// GetProductHandler loads a product from the repository
func GetProductHandler(repo interfaces.ProductRepository) pipeline.Handler[GetProductQuery, *models.Product] {
	return pipeline.HandlerFunc[GetProductQuery, *models.Product](
		func(ctx context.Context, q GetProductQuery) (*models.Product, error) {
			p, err := repo.FindByID(ctx, q.ID)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeDatabase, "failed to load product")
			}
			if p == nil {
				return nil, NotFound(q.ID)
			}
			return p, nil
		})
}

// ListProductsHandler searches, sorts and pages products in the repository
func ListProductsHandler(repo interfaces.ProductRepository) pipeline.Handler[ListProductsQuery, *models.ProductPage] {
	return pipeline.HandlerFunc[ListProductsQuery, *models.ProductPage](
		func(ctx context.Context, q ListProductsQuery) (*models.ProductPage, error) {
			page, err := repo.List(ctx, q.Filter)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeDatabase, "failed to list products")
			}
			return page, nil
		})
}
