package product

import (
	"github.com/google/uuid"
	"github.com/jmgilman/go/errors"
)

// NotFound reports a product id with no stored product
func NotFound(id uuid.UUID) error {
	return errors.WithContext(errors.New(errors.CodeNotFound, "product not found"), "id", id.String())
}

// IsNotFound reports whether err carries CodeNotFound
func IsNotFound(err error) bool {
	return errors.GetCode(err) == errors.CodeNotFound
}
