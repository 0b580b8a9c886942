package pagination_test

import (
	"errors"
	"testing"

	"github.com/maxviazov/catalog-service/pkg/pagination"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		pageSize   int
		totalItems int
		want       pagination.Metadata
	}{
		{
			name: "defaults applied when page and size are zero",
			page: 0, pageSize: 0, totalItems: 120,
			want: pagination.Metadata{Page: 1, TotalCount: 120, PageSize: 50, TotalPages: 3},
		},
		{
			name: "exact division",
			page: 2, pageSize: 10, totalItems: 100,
			want: pagination.Metadata{Page: 2, TotalCount: 100, PageSize: 10, TotalPages: 10},
		},
		{
			name: "remainder adds a page",
			page: 1, pageSize: 10, totalItems: 101,
			want: pagination.Metadata{Page: 1, TotalCount: 101, PageSize: 10, TotalPages: 11},
		},
		{
			name: "negative page normalized to first",
			page: -3, pageSize: 10, totalItems: 30,
			want: pagination.Metadata{Page: 1, TotalCount: 30, PageSize: 10, TotalPages: 3},
		},
		{
			name: "page beyond last is kept as requested",
			page: 99, pageSize: 10, totalItems: 30,
			want: pagination.Metadata{Page: 99, TotalCount: 30, PageSize: 10, TotalPages: 3},
		},
		{
			name: "empty collection",
			page: 1, pageSize: 10, totalItems: 0,
			want: pagination.Metadata{Page: 1, TotalCount: 0, PageSize: 10, TotalPages: 0},
		},
		{
			name: "negative size falls back to default",
			page: 1, pageSize: -5, totalItems: 10,
			want: pagination.Metadata{Page: 1, TotalCount: 10, PageSize: 50, TotalPages: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pagination.Compute(tc.page, tc.pageSize, tc.totalItems, 50)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCompute_NegativeTotalRejected(t *testing.T) {
	_, err := pagination.Compute(1, 10, -1, 50)
	if !errors.Is(err, pagination.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCompute_UnusableDefaultRejected(t *testing.T) {
	_, err := pagination.Compute(1, 0, 10, 0)
	if !errors.Is(err, pagination.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMetadata_OffsetLimit(t *testing.T) {
	m, err := pagination.Compute(3, 20, 100, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Offset() != 40 {
		t.Fatalf("offset: got %d, want 40", m.Offset())
	}
	if m.Limit() != 20 {
		t.Fatalf("limit: got %d, want 20", m.Limit())
	}
}
