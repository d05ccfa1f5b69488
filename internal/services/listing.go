package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/jobster-api/internal/apperrors"
)

// PageSize is the fixed number of items per listing page.
const PageSize = 8

// MaxPage is the largest page whose offset fits in an int.
const MaxPage = math.MaxInt / PageSize

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
}

// ParsePage turns a raw page parameter into a 1-based page number.
// Missing, non-numeric and non-positive values all mean page 1. Numbers
// too large for an int are clamped past MaxPage so they read as out of
// range rather than as the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages is ceil(count / PageSize).
func TotalPages(count int64) int {
	return int((count + PageSize - 1) / PageSize)
}

// offset is the row offset of page, or -1 when page is outside
// [1, MaxPage].
func offset(page int) int {
	if page < 1 || page > MaxPage {
		return -1
	}
	return (page - 1) * PageSize
}

// paginate counts and fetches one page of base. base must carry the
// filters only: ordering, selection and preloads are applied by fetch so
// the count runs over exactly the filtered set. An empty page is a
// NotFound error carrying notFound.
func paginate[M any](ctx context.Context, base *gorm.DB, page int, notFound string, fetch func(*gorm.DB) *gorm.DB) ([]M, int64, error) {
	base = base.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, notFound)
	}

	var rows []M
	if skip := offset(page); skip >= 0 && total > int64(skip) {
		if err := fetch(base).Limit(PageSize).Offset(skip).Find(&rows).Error; err != nil {
			return nil, 0, apperrors.FromDB(err, notFound)
		}
	}
	if len(rows) == 0 {
		return nil, total, apperrors.NewNotFound("%s", notFound)
	}
	return rows, total, nil
}

// newPage maps model rows to views.
func newPage[M, V any](rows []M, total int64, page int, view func(*M) V) *Page[V] {
	items := make([]V, 0, len(rows))
	for i := range rows {
		items = append(items, view(&rows[i]))
	}
	return &Page[V]{Items: items, Page: page, TotalPages: TotalPages(total), Total: total}
}

// slicePage paginates an in-memory list with the same contract as paginate.
func slicePage[V any](all []V, page int, notFound string) (*Page[V], error) {
	total := int64(len(all))
	start := offset(page)
	if start < 0 || start >= len(all) {
		return nil, apperrors.NewNotFound("%s", notFound)
	}
	end := min(start+PageSize, len(all))
	return &Page[V]{Items: all[start:end], Page: page, TotalPages: TotalPages(total), Total: total}, nil
}
