package datasetentry

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Repository reads dataset entries. It backs both the browsing endpoints and
// the engine's candidate snapshot.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new dataset entry repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByDataset retrieves one page of entries for a dataset, ordered by name
func (r *Repository) ListByDataset(ctx context.Context, datasetID string, page, pageSize int) ([]models.DatasetEntry, int, error) {
	ctx, span := tracing.StartSpan(ctx, "datasetentry.Repository.ListByDataset")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	// Count total
	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("dataset_entries")
	countSb.Where(countSb.Equal("dataset_id", datasetID))

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count dataset entries")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count dataset entries")
	}

	// Fetch page
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"id", "dataset_id", "external_id", "organization_name", "aliases",
		"category", "countries", "schema_type", "description",
		"published_date", "updated_date", "data_source_url",
		"created_at", "updated_at",
	)
	sb.From("dataset_entries")
	sb.Where(sb.Equal("dataset_id", datasetID))
	sb.OrderBy("organization_name ASC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var entries []models.DatasetEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list dataset entries")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list dataset entries")
	}

	return entries, totalCount, nil
}

// ActiveCandidates retrieves the candidate snapshot: every entry of every
// active dataset, joined with the dataset name. This is the pool one match
// request scores against.
func (r *Repository) ActiveCandidates(ctx context.Context) ([]models.CandidateRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "datasetentry.Repository.ActiveCandidates")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"d.name AS dataset_name",
		"e.organization_name", "e.aliases", "e.category", "e.countries",
	)
	sb.From("dataset_entries e")
	sb.JoinWithOption(sqlbuilder.InnerJoin, "datasets d", "d.id = e.dataset_id")
	sb.Where(sb.Equal("d.is_active", true))
	sb.OrderBy("e.organization_name ASC")

	query, args := sb.Build()
	var rows []models.CandidateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to fetch active candidates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to fetch active candidates")
	}

	candidates := ectolinq.Map(rows, func(row models.CandidateRow) models.CandidateRecord {
		return models.CandidateRecord{
			DatasetName:      row.DatasetName,
			OrganizationName: row.OrganizationName,
			Aliases:          row.Aliases.Data,
			Category:         row.Category,
			Countries:        row.Countries.Data,
		}
	})

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"candidates": len(candidates),
	}).Debug("Fetched active candidate snapshot")

	return candidates, nil
}
