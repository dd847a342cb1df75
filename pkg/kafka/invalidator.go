package kafka

import (
	"context"

	"github.com/Gobusters/ectologger"
)

// CacheClearer empties the match result cache.
type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

// NewCacheInvalidationHandler returns the event handler wired to the dataset
// events topic. Any catalog change clears the whole result cache: entries are
// keyed by query, not by dataset, so there is nothing finer to invalidate.
func NewCacheInvalidationHandler(clearer CacheClearer, logger ectologger.Logger) EventHandler {
	return func(ctx context.Context, event DatasetEvent) error {
		switch event.Type {
		case EventDatasetUpdated, EventDatasetDeleted, EventEntriesImported:
		default:
			logger.WithContext(ctx).WithFields(map[string]any{
				"type": event.Type,
			}).Warn("Ignoring unrecognized dataset event")
			return nil
		}

		if err := clearer.ClearCache(ctx); err != nil {
			return err
		}

		logger.WithContext(ctx).WithFields(map[string]any{
			"type":         event.Type,
			"dataset_id":   event.DatasetID,
			"dataset_name": event.DatasetName,
		}).Info("Cleared match cache after dataset event")

		return nil
	}
}
