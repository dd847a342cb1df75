package match

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/utils"
)

// Register registers match routes
func Register(g *echo.Group) {
	g.POST("", FindMatches)
	g.POST("/batch", FindMatchesBatch)
}

// MatchResponse is the single-entity search response body.
type MatchResponse struct {
	Entity           string               `json:"entity"`
	Matches          []models.MatchResult `json:"matches"`
	TotalMatches     int                  `json:"total_matches"`
	CacheHit         bool                 `json:"cache_hit"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
}

// FindMatches searches the active datasets for one entity
func FindMatches(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.MatchRequest](c)
	if err != nil {
		return err
	}

	ctx, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := engine.FindMatches(ctx, req.Entity, matching.MatchOptions{
		Context:      req.Context,
		Location:     req.Location,
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		return err
	}

	// The engine returns the full ranked list; request filters apply here.
	matches := matching.FilterMatches(result.Matches, req.MatchTypes, req.MinConfidence)

	return c.JSON(http.StatusOK, MatchResponse{
		Entity:           req.Entity,
		Matches:          matches,
		TotalMatches:     len(matches),
		CacheHit:         result.CacheHit,
		ProcessingTimeMs: result.ProcessingTimeMs,
	})
}

// FindMatchesBatch searches the active datasets for up to 100 entities
func FindMatchesBatch(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.BatchMatchRequest](c)
	if err != nil {
		return err
	}

	ctx, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := engine.FindMatchesBatch(ctx, req.Entities, matching.BatchOptions{
		MatchOptions: matching.MatchOptions{
			Context:      req.Context,
			Location:     req.Location,
			ForceRefresh: req.ForceRefresh,
		},
		MatchTypes:    req.MatchTypes,
		MinConfidence: req.MinConfidence,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
