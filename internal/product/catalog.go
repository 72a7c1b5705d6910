package product

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-aside-cache/internal/cache/service"
	"go-aside-cache/internal/cache_rules"
	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
	"go-aside-cache/internal/pipeline"
)

// Catalog exposes the product operations with caching, invalidation, validation and logging applied
type Catalog struct {
	productPolicy models.CachePolicy
	listPolicy    models.CachePolicy

	getProduct    pipeline.Handler[GetProductQuery, *models.Product]
	listProducts  pipeline.Handler[ListProductsQuery, *models.ProductPage]
	createProduct pipeline.Handler[CreateProductCommand, *models.Product]
	updateProduct pipeline.Handler[UpdateProductCommand, *models.Product]
	deleteProduct pipeline.Handler[DeleteProductCommand, struct{}]
}

// NewCatalog composes the product handlers
func NewCatalog(
	repo interfaces.ProductRepository,
	coord *service.Coordinator,
	rules interfaces.CacheRulesConfig,
	validate *validator.Validate,
	publisher *Publisher,
	logger *zap.Logger,
) *Catalog {
	return &Catalog{
		productPolicy: rules.GetPolicy(cache_rules.PolicyProduct),
		listPolicy:    rules.GetPolicy(cache_rules.PolicyProductList),

		getProduct: pipeline.Logged(logger, "get_product",
			pipeline.Validated(validate,
				pipeline.Cached(coord, logger, GetProductHandler(repo)))),
		listProducts: pipeline.Logged(logger, "list_products",
			pipeline.Validated(validate,
				pipeline.Cached(coord, logger, ListProductsHandler(repo)))),
		createProduct: pipeline.Logged(logger, "create_product",
			pipeline.Validated(validate,
				pipeline.Invalidating(coord, logger, CreateProductHandler(repo, publisher)))),
		updateProduct: pipeline.Logged(logger, "update_product",
			pipeline.Validated(validate,
				pipeline.Invalidating(coord, logger, UpdateProductHandler(repo)))),
		deleteProduct: pipeline.Logged(logger, "delete_product",
			pipeline.Validated(validate,
				pipeline.Invalidating(coord, logger, DeleteProductHandler(repo)))),
	}
}

// GetProduct returns one product. bypass skips the cache in both directions.
func (c *Catalog) GetProduct(ctx context.Context, id uuid.UUID, bypass bool) (*models.Product, error) {
	return c.getProduct.Handle(ctx, GetProductQuery{ID: id, Bypass: bypass, Policy: c.productPolicy})
}

// ListProducts returns one page of products
func (c *Catalog) ListProducts(ctx context.Context, filter models.ProductFilter, bypass bool) (*models.ProductPage, error) {
	return c.listProducts.Handle(ctx, ListProductsQuery{Filter: filter, Bypass: bypass, Policy: c.listPolicy})
}

// CreateProduct stores a new product
func (c *Catalog) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*models.Product, error) {
	return c.createProduct.Handle(ctx, cmd)
}

// UpdateProduct overwrites an existing product
func (c *Catalog) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*models.Product, error) {
	return c.updateProduct.Handle(ctx, cmd)
}

// DeleteProduct removes an existing product
func (c *Catalog) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	_, err := c.deleteProduct.Handle(ctx, DeleteProductCommand{ID: id})
	return err
}
