package http

import (
	"net/http"
	"parking/pkg/config"
	apperrors "parking/pkg/errors"
	"strconv"
)

// Paginator reads the limit and offset query parameters of list endpoints
// using the page bounds from the service config.
type Paginator struct {
	cfg *config.Config
}

func NewPaginator(cfg *config.Config) Paginator {
	return Paginator{cfg: cfg}
}

// ExtractLimitOffset returns the normalized page window. A missing limit
// becomes the configured page size and a larger one is capped at the
// configured maximum. Negative or non-numeric values are rejected.
func (p Paginator) ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return p.cfg.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}
