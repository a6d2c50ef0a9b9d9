package http

import (
	"net/http"
	"net/http/httptest"
	"parking/pkg/config"
	apperrors "parking/pkg/errors"
	"testing"
)

func TestExtractLimitOffset(t *testing.T) {
	cfg := config.Defaults()
	cfg.PageSize = 20
	cfg.MaxPageSize = 50
	pages := NewPaginator(cfg)

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{name: "defaults", query: "", wantLimit: 20, wantOffset: 0},
		{name: "explicit", query: "?limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "zero limit uses page size", query: "?limit=0", wantLimit: 20},
		{name: "capped", query: "?limit=500", wantLimit: 50},
		{name: "large offset", query: "?offset=9000000000", wantLimit: 20, wantOffset: 9000000000},
		{name: "bad limit", query: "?limit=abc", wantErr: true},
		{name: "negative limit", query: "?limit=-1", wantErr: true},
		{name: "negative offset", query: "?offset=-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+tt.query, nil)
			limit, offset, err := pages.ExtractLimitOffset(r)
			if tt.wantErr {
				if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
					t.Fatalf("err = %v, want invalid input", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got limit=%d offset=%d, want limit=%d offset=%d", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
