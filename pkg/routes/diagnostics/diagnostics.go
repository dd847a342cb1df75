package diagnostics

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/matching"
)

// Register registers diagnostics routes
func Register(g *echo.Group) {
	g.GET("", GetDiagnostics)
}

// GetDiagnostics reports the health of the active scoring policy
func GetDiagnostics(c echo.Context) error {
	ctx := c.Request().Context()

	_, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, engine.Diagnostics())
}
