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

// CreateProductCommand adds a product
type CreateProductCommand struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// UpdateProductCommand replaces the fields of an existing product
type UpdateProductCommand struct {
	ID          uuid.UUID `json:"-" validate:"required"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       float64   `json:"price" validate:"gte=0"`
}

// DeleteProductCommand removes a product
type DeleteProductCommand struct {
	ID uuid.UUID `validate:"required"`
}

// CreateProductHandler stores a new product and announces it
func CreateProductHandler(repo interfaces.ProductRepository, publisher *Publisher) pipeline.Handler[CreateProductCommand, pipeline.Written[*models.Product]] {
	return pipeline.HandlerFunc[CreateProductCommand, pipeline.Written[*models.Product]](
		func(ctx context.Context, cmd CreateProductCommand) (pipeline.Written[*models.Product], error) {
			p := models.Product{
				ID:          uuid.New(),
				Name:        cmd.Name,
				Description: cmd.Description,
				Price:       cmd.Price,
			}

			uow := repo.Begin(ctx)
			uow.Add(p)
			if err := uow.Commit(ctx); err != nil {
				return pipeline.Written[*models.Product]{}, commitError(err, "failed to create product")
			}

			publisher.Publish(ctx, ProductCreated{Product: p})

			return pipeline.Written[*models.Product]{
				Value: &p,
				Stale: cache.StaleOnCreate(Entity),
			}, nil
		})
}

// UpdateProductHandler overwrites an existing product
func UpdateProductHandler(repo interfaces.ProductRepository) pipeline.Handler[UpdateProductCommand, pipeline.Written[*models.Product]] {
	return pipeline.HandlerFunc[UpdateProductCommand, pipeline.Written[*models.Product]](
		func(ctx context.Context, cmd UpdateProductCommand) (pipeline.Written[*models.Product], error) {
			existing, err := repo.FindByID(ctx, cmd.ID)
			if err != nil {
				return pipeline.Written[*models.Product]{}, errors.Wrap(err, errors.CodeDatabase, "failed to load product")
			}
			if existing == nil {
				return pipeline.Written[*models.Product]{}, NotFound(cmd.ID)
			}

			existing.Name = cmd.Name
			existing.Description = cmd.Description
			existing.Price = cmd.Price

			uow := repo.Begin(ctx)
			uow.Update(*existing)
			if err := uow.Commit(ctx); err != nil {
				return pipeline.Written[*models.Product]{}, commitError(err, "failed to update product")
			}

			return pipeline.Written[*models.Product]{
				Value: existing,
				Stale: cache.StaleOnUpdate(Entity, cmd.ID),
			}, nil
		})
}

// DeleteProductHandler removes an existing product
func DeleteProductHandler(repo interfaces.ProductRepository) pipeline.Handler[DeleteProductCommand, pipeline.Written[struct{}]] {
	return pipeline.HandlerFunc[DeleteProductCommand, pipeline.Written[struct{}]](
		func(ctx context.Context, cmd DeleteProductCommand) (pipeline.Written[struct{}], error) {
			existing, err := repo.FindByID(ctx, cmd.ID)
			if err != nil {
				return pipeline.Written[struct{}]{}, errors.Wrap(err, errors.CodeDatabase, "failed to load product")
			}
			if existing == nil {
				return pipeline.Written[struct{}]{}, NotFound(cmd.ID)
			}

			uow := repo.Begin(ctx)
			uow.Remove(cmd.ID)
			if err := uow.Commit(ctx); err != nil {
				return pipeline.Written[struct{}]{}, commitError(err, "failed to delete product")
			}

			return pipeline.Written[struct{}]{Stale: cache.StaleOnDelete(Entity, cmd.ID)}, nil
		})
}

// commitError keeps coded repository errors and marks the rest as database failures
func commitError(err error, message string) error {
	if code := errors.GetCode(err); code != errors.CodeUnknown {
		return err
	}
	return errors.Wrap(err, errors.CodeDatabase, message)
}
