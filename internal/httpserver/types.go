package httpserver

import "github.com/jmgilman/go/errors"

// ProductRequest is the body of create and update requests
type ProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// ErrorResponse wraps a coded error for clients
type ErrorResponse struct {
	Error *errors.ErrorResponse `json:"error"`
}
