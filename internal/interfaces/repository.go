package interfaces

import (
	"context"

	"github.com/google/uuid"

	"go-aside-cache/internal/models"
)

//go:generate mockgen -package=mock -source=repository.go -destination=mock/repository.go

// ProductRepository reads products and opens units of work for writes
type ProductRepository interface {
	// FindByID returns nil without error when the product does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error)
	Begin(ctx context.Context) ProductUnitOfWork
}

// ProductUnitOfWork stages writes and applies them together on Commit
type ProductUnitOfWork interface {
	Add(product models.Product)
	Update(product models.Product)
	Remove(id uuid.UUID)
	Commit(ctx context.Context) error
}
