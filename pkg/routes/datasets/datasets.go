package datasets

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/dataset"
	"github.com/Ramsey-B/aster/internal/repositories/datasetentry"
	"github.com/Ramsey-B/aster/pkg/models"
)

// Register registers dataset browsing routes. The catalog is read-only over
// HTTP; datasets are loaded out of band.
func Register(g *echo.Group) {
	g.GET("", ListDatasets)
	g.GET("/:id/entries", ListEntries)
}

// ListDatasets lists every dataset with its entry count
func ListDatasets(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*dataset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	datasets, err := repo.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, datasets)
}

// EntriesResponse is one page of dataset entries.
type EntriesResponse struct {
	Entries    []models.DatasetEntry `json:"entries"`
	TotalCount int                   `json:"total_count"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
}

// ListEntries lists one page of a dataset's entries
func ListEntries(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ctx, datasetRepo, err := ectoinject.GetContext[*dataset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	// 404 on unknown datasets instead of an empty page.
	if _, err := datasetRepo.Get(ctx, id); err != nil {
		return err
	}

	ctx, entryRepo, err := ectoinject.GetContext[*datasetentry.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, totalCount, err := entryRepo.ListByDataset(ctx, id, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, EntriesResponse{
		Entries:    entries,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}
