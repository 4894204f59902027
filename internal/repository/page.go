package repository

import "errors"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxOffset bounds the rows a page may skip. Deeper pages read as empty.
	MaxOffset = 1<<31 - 1
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
)

// PageQuery holds page/limit pagination parameters.
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize clamps the query to usable values: page >= 1 and 1 <= limit <= MaxLimit.
func (pq PageQuery) Normalize() PageQuery {
	if pq.Page < 1 {
		pq.Page = DefaultPage
	}
	if pq.Limit < 1 {
		pq.Limit = DefaultLimit
	}
	if pq.Limit > MaxLimit {
		pq.Limit = MaxLimit
	}
	return pq
}

// Offset is the number of rows to skip for the (normalized) page, capped at MaxOffset.
func (pq PageQuery) Offset() int {
	n := pq.Normalize()
	if n.Page-1 > MaxOffset/n.Limit {
		return MaxOffset
	}
	return (n.Page - 1) * n.Limit
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Meta describes a page in API responses.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewMeta computes the page metadata for total rows under the (normalized) query.
func NewMeta(total int, pq PageQuery) Meta {
	n := pq.Normalize()
	return Meta{
		Total:      total,
		Page:       n.Page,
		Limit:      n.Limit,
		TotalPages: (total + n.Limit - 1) / n.Limit,
	}
}
