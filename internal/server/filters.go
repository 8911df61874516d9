package server

import (
	"net/url"

	"implantstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Filters are the list query parameters carried through every inventory page.
type Filters struct {
	Search      string `json:"search"`
	SizeFilter  string `json:"size_filter"`
	BrandFilter string `json:"brand_filter"`
}

func filtersFrom(c *fiber.Ctx) Filters {
	return Filters{
		Search:      c.Query("search"),
		SizeFilter:  c.Query("size_filter"),
		BrandFilter: c.Query("brand_filter"),
	}
}

func (f Filters) listFilter() service.ListFilter {
	return service.ListFilter{
		Search:      f.Search,
		SizeFilter:  f.SizeFilter,
		BrandFilter: f.BrandFilter,
	}
}

// listURL is the inventory list with the non-empty filters applied.
func (f Filters) listURL() string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.SizeFilter != "" {
		q.Set("size_filter", f.SizeFilter)
	}
	if f.BrandFilter != "" {
		q.Set("brand_filter", f.BrandFilter)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}
