// Package api exposes the REST surface over the search and statistics
// services.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"wellcareplus/backend/internal/currency"
	"wellcareplus/backend/internal/logging"
	"wellcareplus/backend/internal/repository"
	"wellcareplus/backend/internal/services"
	"wellcareplus/backend/pkg/models"
)

// Handler contains HTTP handlers for the provider search REST API
type Handler struct {
	search *services.SearchService
	stats  *services.StatsService
	logger *logging.Logger
}

// NewHandler creates a new Handler with required dependencies
func NewHandler(search *services.SearchService, stats *services.StatsService, logger *logging.Logger) *Handler {
	return &Handler{
		search: search,
		stats:  stats,
		logger: logger,
	}
}

// RegisterRoutes mounts the API routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/providers/search", h.HandleSearch)
	g.GET("/providers/featured", h.HandleFeatured)
	g.GET("/providers/:id", h.HandleGetProvider)
	g.GET("/reports/cities", h.HandleCityReport)
	g.POST("/admin/warmup", h.HandleWarmUp)
	g.POST("/admin/refresh-stats", h.HandleRefreshStats)
}

// ProviderView is a provider with its fee formatted for display.
type ProviderView struct {
	*models.Provider
	DisplayFee string `json:"display_fee"`
}

// SearchResponse is the payload of a provider search.
type SearchResponse struct {
	Count     int            `json:"count"`
	Providers []ProviderView `json:"providers"`
}

// HandleSearch runs a filtered provider search. Malformed filter values are
// ignored, so a partially invalid query still returns the results of its
// valid subset.
func (h *Handler) HandleSearch(c echo.Context) error {
	var filters services.SearchFilters
	if err := c.Bind(&filters); err != nil {
		return writeError(c, http.StatusBadRequest, "Invalid request", err.Error())
	}

	providers, err := h.search.SearchProviders(c.Request().Context(), filters)
	if err != nil {
		h.logger.Error("provider search failed: %v", err)
		return writeError(c, http.StatusInternalServerError, "Search failed", "provider search failed")
	}

	return c.JSON(http.StatusOK, buildSearchResponse(providers, c.QueryParam("currency")))
}

// HandleFeatured returns the cached top-rated provider list.
func (h *Handler) HandleFeatured(c echo.Context) error {
	providers, err := h.search.FeaturedProviders(c.Request().Context(), 0)
	if err != nil {
		h.logger.Error("featured providers failed: %v", err)
		return writeError(c, http.StatusInternalServerError, "Lookup failed", "featured provider lookup failed")
	}
	return c.JSON(http.StatusOK, buildSearchResponse(providers, c.QueryParam("currency")))
}

// HandleGetProvider returns a single provider by ID.
func (h *Handler) HandleGetProvider(c echo.Context) error {
	provider, err := h.search.GetProvider(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProviderNotFound) {
			return writeError(c, http.StatusNotFound, "Not found", "no such provider")
		}
		h.logger.Error("provider lookup failed: %v", err)
		return writeError(c, http.StatusInternalServerError, "Lookup failed", "provider lookup failed")
	}
	view := ProviderView{
		Provider:   provider,
		DisplayFee: currency.Format(provider.ConsultationFee, c.QueryParam("currency")),
	}
	return c.JSON(http.StatusOK, view)
}

// HandleCityReport returns the providers-per-city aggregate.
func (h *Handler) HandleCityReport(c echo.Context) error {
	counts, err := h.search.ProviderCountByCity(c.Request().Context())
	if err != nil {
		h.logger.Error("city report failed: %v", err)
		return writeError(c, http.StatusInternalServerError, "Report failed", "city report failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"cities": counts})
}

// HandleWarmUp pre-populates the high-traffic cache entries.
func (h *Handler) HandleWarmUp(c echo.Context) error {
	if err := h.search.WarmUp(c.Request().Context()); err != nil {
		h.logger.Error("cache warm-up failed: %v", err)
		return writeError(c, http.StatusInternalServerError, "Warm-up failed", "cache warm-up failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleRefreshStats triggers the statistics refresh batch job.
func (h *Handler) HandleRefreshStats(c echo.Context) error {
	if err := h.stats.RefreshStatistics(c.Request().Context()); err != nil {
		h.logger.Error("statistics refresh failed: %v", err)
		return writeError(c, http.StatusInternalServerError, "Refresh failed", "statistics refresh failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func buildSearchResponse(providers []*models.Provider, countryCode string) SearchResponse {
	views := make([]ProviderView, 0, len(providers))
	for _, p := range providers {
		views = append(views, ProviderView{
			Provider:   p,
			DisplayFee: currency.Format(p.ConsultationFee, countryCode),
		})
	}
	return SearchResponse{Count: len(views), Providers: views}
}
