package models

import (
	"time"

	"github.com/Ramsey-B/aster/pkg/database"
)

// Dataset is one catalog of organization records searched by the matcher.
type Dataset struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	SourceURL   *string   `json:"source_url,omitempty" db:"source_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DatasetWithCount is a dataset row joined with its entry count for list views.
type DatasetWithCount struct {
	Dataset
	EntryCount int `json:"entry_count" db:"entry_count"`
}

// DatasetEntry is one organization record inside a dataset.
type DatasetEntry struct {
	ID               string                   `json:"id" db:"id"`
	DatasetID        string                   `json:"dataset_id" db:"dataset_id"`
	ExternalID       *string                  `json:"external_id,omitempty" db:"external_id"`
	OrganizationName string                   `json:"organization_name" db:"organization_name"`
	Aliases          database.JSONB[[]string] `json:"aliases" db:"aliases"`
	Category         *string                  `json:"category,omitempty" db:"category"`
	Countries        database.JSONB[[]string] `json:"countries" db:"countries"`
	SchemaType       *string                  `json:"schema_type,omitempty" db:"schema_type"`
	Description      *string                  `json:"description,omitempty" db:"description"`
	PublishedDate    *time.Time               `json:"published_date,omitempty" db:"published_date"`
	UpdatedDate      *time.Time               `json:"updated_date,omitempty" db:"updated_date"`
	DataSourceURL    *string                  `json:"data_source_url,omitempty" db:"data_source_url"`
	CreatedAt        time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at" db:"updated_at"`
}

// CandidateRow is one row of the candidate snapshot: an active entry joined
// with its dataset name.
type CandidateRow struct {
	DatasetName      string                   `json:"dataset_name" db:"dataset_name"`
	OrganizationName string                   `json:"organization_name" db:"organization_name"`
	Aliases          database.JSONB[[]string] `json:"aliases" db:"aliases"`
	Category         *string                  `json:"category,omitempty" db:"category"`
	Countries        database.JSONB[[]string] `json:"countries" db:"countries"`
}

// CandidateRecord is the engine-facing view of one candidate. It is a plain
// value detached from the store so scoring never touches database types.
type CandidateRecord struct {
	DatasetName      string   `json:"dataset_name"`
	OrganizationName string   `json:"organization_name"`
	Aliases          []string `json:"aliases,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Countries        []string `json:"countries,omitempty"`
}
