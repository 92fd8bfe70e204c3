package httputil

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type PageParams struct {
	Page  int
	Limit int
}

// ParsePage reads page/limit query params, falling back to 1/10 and
// clamping limit to 100.
func ParsePage(c echo.Context) PageParams {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return PageParams{Page: page, Limit: limit}
}

func (p PageParams) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

func TotalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
