package cache

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/utils"
)

// Register registers cache administration routes
func Register(g *echo.Group) {
	g.GET("/stats", GetStats)
	g.POST("/clear", Clear)
	g.POST("/warmup", Warmup)
}

// GetStats returns the result cache statistics
func GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, engine.CacheStats(ctx))
}

// Clear empties the result cache
func Clear(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := engine.ClearCache(ctx); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}

// Warmup primes the result cache. An empty body warms the configured queries.
func Warmup(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.CacheWarmupRequest](c)
	if err != nil {
		return err
	}

	ctx, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, engine.Warmup(ctx, req.Queries))
}
