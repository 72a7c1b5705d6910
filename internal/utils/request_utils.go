package utils

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmgilman/go/errors"

	"go-aside-cache/internal/models"
)

// ParseID parses a path id into a uuid
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidInput, "invalid product id"), "id", raw)
	}
	return id, nil
}

// ParseProductFilter reads search, sort, page and page_size from a query string.
// Missing numbers stay zero and are defaulted by the repository.
func ParseProductFilter(query url.Values) (models.ProductFilter, error) {
	filter := models.ProductFilter{
		Search: strings.TrimSpace(query.Get("search")),
		SortBy: strings.TrimSpace(query.Get("sort")),
	}

	var err error
	if filter.Page, err = parseInt(query, "page"); err != nil {
		return models.ProductFilter{}, err
	}
	if filter.PageSize, err = parseInt(query, "page_size"); err != nil {
		return models.ProductFilter{}, err
	}
	return filter, nil
}

func parseInt(query url.Values, name string) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WithContext(
			errors.Wrapf(err, errors.CodeInvalidInput, "invalid %s", name), name, raw)
	}
	return n, nil
}

// NoCacheRequested reports whether the client asked to skip cached responses
func NoCacheRequested(header http.Header) bool {
	for _, value := range header.Values("Cache-Control") {
		for _, directive := range strings.Split(value, ",") {
			switch strings.ToLower(strings.TrimSpace(directive)) {
			case "no-cache", "no-store":
				return true
			}
		}
	}
	return strings.EqualFold(strings.TrimSpace(header.Get("Pragma")), "no-cache")
}

// StatusForError maps an error code to the HTTP status returned to clients
func StatusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeSchemaFailed:
		return http.StatusBadRequest
	case errors.CodeConflict, errors.CodeAlreadyExists:
		return http.StatusConflict
	case errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case errors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
