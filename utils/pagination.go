package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 50

// Pagination carries the page window parsed from list query parameters
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// NewPagination parses page and limit from the request query. Out-of-range
// values fall back to page 1 and a page size of 10; the size is capped so a
// single request cannot pull the whole ledger.
func NewPagination(c *gin.Context) *Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > maxPageSize {
		limit = 10
	}

	return &Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
