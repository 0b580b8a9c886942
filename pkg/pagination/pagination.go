// Package pagination computes the metadata envelope for list endpoints.
// It is pure on purpose: handlers feed it raw query values, repositories
// consume the derived offset/limit, and nothing here touches storage.
package pagination

import "errors"

// ErrInvalidInput marks pagination inputs that cannot produce a consistent
// envelope (maps to HTTP 400 at the edge).
var ErrInvalidInput = errors.New("invalid pagination input")

// Metadata describes one page window over a known total.
// Count is zero until the caller sets it after the actual fetch.
type Metadata struct {
	Page       int `json:"page"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Compute derives pagination metadata from caller-controlled page/pageSize and
// the authoritative totalItems from a prior count query.
//
// Policy, in order:
//   - pageSize <= 0 falls back to defaultPageSize
//   - page < 1 is clamped to 1
//   - totalPages = ceil(totalItems / pageSize), 0 when totalItems is 0
//   - page is never clamped down to totalPages; asking past the end yields an
//     empty result set, not an error. Intentional, keep it that way.
func Compute(page, pageSize, totalItems, defaultPageSize int) (Metadata, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize <= 0 {
		return Metadata{}, ErrInvalidInput
	}
	if totalItems < 0 {
		return Metadata{}, ErrInvalidInput
	}

	totalPages := (totalItems + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}

	return Metadata{
		Page:       page,
		TotalCount: totalItems,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Offset is derived, not stored, so it always reflects the clamped page.
func (m Metadata) Offset() int { return (m.Page - 1) * m.PageSize }

// Limit mirrors PageSize; kept as a method so callers never mix the two up.
func (m Metadata) Limit() int { return m.PageSize }
