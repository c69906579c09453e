package helpers

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// CalculateOffsetLimit converts a 1-based page into a SQL offset and limit
func CalculateOffsetLimit(page, limit int) (offset uint64, size uint64) {
	page, limit = normalizePage(page, limit)
	return uint64(page-1) * uint64(limit), uint64(limit)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	// keep (page-1)*limit inside the bigint OFFSET range
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// NewPaginationInfo builds the pagination block. A page past the end is reported as requested.
func NewPaginationInfo(total int64, page, limit int) dto.PaginationInfo {
	page, limit = normalizePage(page, limit)

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return dto.PaginationInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ParsePaginationParams reads page and limit from the query string.
// Non numeric or non positive values fall back to the defaults and limit is capped at MaxPageSize.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	if err != nil {
		page = DefaultPage
	}

	limit, err = strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if err != nil {
		limit = DefaultPageSize
	}

	return normalizePage(page, limit)
}

// ParseSortParams reads sortBy and sortOrder. Unknown orders become desc.
func ParseSortParams(c *gin.Context, defaultField string) (string, models.SortOrder) {
	sortBy := strings.TrimSpace(c.Query("sortBy"))
	if sortBy == "" {
		sortBy = defaultField
	}

	if strings.EqualFold(strings.TrimSpace(c.Query("sortOrder")), string(models.SortAsc)) {
		return sortBy, models.SortAsc
	}
	return sortBy, models.SortDesc
}

// ParseBoolQuery accepts only the literals "true" and "false". Anything else leaves the filter unset.
func ParseBoolQuery(c *gin.Context, key string) *bool {
	switch c.Query(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

// ParseStringQuery returns nil for an absent or blank parameter
func ParseStringQuery(c *gin.Context, key string) *string {
	return NilIfBlank(c.Query(key))
}
