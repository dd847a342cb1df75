package dataset

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Repository reads the dataset catalog. The matcher never writes datasets;
// loading is an external concern.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new dataset repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// List retrieves every dataset with its entry count, active first then by name
func (r *Repository) List(ctx context.Context) ([]models.DatasetWithCount, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"d.id", "d.name", "d.description", "d.is_active", "d.source_url",
		"d.created_at", "d.updated_at",
		"COUNT(e.id) AS entry_count",
	)
	sb.From("datasets d")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "dataset_entries e", "e.dataset_id = d.id")
	sb.GroupBy("d.id")
	sb.OrderBy("d.is_active DESC", "d.name ASC")

	query, args := sb.Build()
	var datasets []models.DatasetWithCount
	if err := r.db.SelectContext(ctx, &datasets, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list datasets")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list datasets")
	}

	return datasets, nil
}

// Get retrieves a dataset by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name", "description", "is_active", "source_url", "created_at", "updated_at")
	sb.From("datasets")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var dataset models.Dataset
	if err := r.db.GetContext(ctx, &dataset, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("dataset %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get dataset")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get dataset")
	}

	return &dataset, nil
}
