package controllers

import (
	"strconv"
	"strings"

	"coursepanel/backend/config"
	"coursepanel/backend/services"
	"coursepanel/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type SearchController struct {
	Search *services.SearchService
	Cfg    *config.Config
}

func NewSearchController(search *services.SearchService, cfg *config.Config) *SearchController {
	return &SearchController{Search: search, Cfg: cfg}
}

func optionsFromQuery(c *fiber.Ctx) services.SearchOptions {
	opts := services.SearchOptions{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Level:     c.Query("level"),
		Role:      c.Query("role"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy", "relevance"),
		SortOrder: c.Query("sortOrder", "desc"),
	}

	if types := c.Query("types"); types != "" {
		opts.Types = strings.Split(types, ",")
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		opts.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		opts.MaxPrice = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.MaxResults = v
	}

	return opts
}

// Query runs the unified cross-entity search.
func (sc *SearchController) Query(c *fiber.Ctx) error {
	opts := optionsFromQuery(c)
	if opts.Query == "" {
		return utils.BadRequest(c, "Query parameter q is required")
	}

	results := sc.Search.Search(opts)
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"query":   opts.Query,
		"total":   len(results),
		"results": results,
	})
}

// ExportCSV downloads the current search results as a CSV file.
func (sc *SearchController) ExportCSV(c *fiber.Ctx) error {
	opts := optionsFromQuery(c)
	if opts.Query == "" {
		return utils.BadRequest(c, "Query parameter q is required")
	}

	csv := services.ExportCSV(sc.Search.Search(opts))

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+services.CSVFilename()+`"`)
	return c.SendString(csv)
}
