package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-aside-cache/internal/product"
	"go-aside-cache/internal/utils"
)

// handleGetProduct handles GET /products/{id}
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	p, err := s.catalog.GetProduct(r.Context(), id, utils.NoCacheRequested(r.Header))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeResponse(w, http.StatusOK, p)
}

// handleListProducts handles GET /products
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := utils.ParseProductFilter(r.URL.Query())
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	page, err := s.catalog.ListProducts(r.Context(), filter, utils.NoCacheRequested(r.Header))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeResponse(w, http.StatusOK, page)
}

// handleCreateProduct handles POST /products
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	p, err := s.catalog.CreateProduct(r.Context(), product.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	w.Header().Set("Location", "/products/"+p.ID.String())
	s.writeResponse(w, http.StatusCreated, p)
}

// handleUpdateProduct handles PUT /products/{id}
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	var req ProductRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	p, err := s.catalog.UpdateProduct(r.Context(), product.UpdateProductCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeResponse(w, http.StatusOK, p)
}

// handleDeleteProduct handles DELETE /products/{id}
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
