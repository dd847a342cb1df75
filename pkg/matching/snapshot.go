package matching

import (
	"context"
	"sync/atomic"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/acronym"
	"github.com/Ramsey-B/aster/pkg/boost"
	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/geography"
	"github.com/Ramsey-B/aster/pkg/normalize"
	"github.com/Ramsey-B/aster/pkg/similarity"
)

// Snapshot is a compiled, immutable scoring policy. Everything derived from an
// EngineConfig (normalizer vocabularies, acronym patterns, boost tables, the
// config fingerprint) is built once here so concurrent matchers never see a
// half-updated policy.
type Snapshot struct {
	Config  EngineConfig
	Version string

	warnings   []string
	normalizer *normalize.Normalizer
	scorer     *similarity.Scorer
	detector   *acronym.Detector
	booster    *boost.Booster
	resolver   *geography.Resolver
}

// NewSnapshot compiles cfg into an immutable policy. Invalid acronym patterns
// are the only fatal input; weight and threshold inconsistencies become
// warnings and scoring proceeds with the values as given.
func NewSnapshot(cfg EngineConfig, resolver *geography.Resolver) (*Snapshot, error) {
	version, err := cfg.Fingerprint()
	if err != nil {
		return nil, err
	}

	normalizer := normalize.New(cfg.Normalize)

	detector, err := acronym.New(cfg.Acronym, normalizer)
	if err != nil {
		return nil, err
	}

	if resolver == nil {
		resolver = geography.NewResolver()
	}

	warnings := cfg.Warnings()
	if warnings == nil {
		warnings = []string{}
	}

	return &Snapshot{
		Config:     cfg,
		Version:    version,
		warnings:   warnings,
		normalizer: normalizer,
		scorer:     similarity.NewScorer(),
		detector:   detector,
		booster:    boost.New(cfg.Boost, resolver),
		resolver:   resolver,
	}, nil
}

// Warnings lists the configuration inconsistencies found at compile time.
func (s *Snapshot) Warnings() []string {
	return s.warnings
}

// Normalize applies the snapshot's normalization pipeline.
func (s *Snapshot) Normalize(text string) string {
	return s.normalizer.Normalize(text)
}

// ConfigHolder hands the active snapshot to concurrent matchers and swaps in
// replacements atomically. Readers always get a complete policy; a swap never
// blocks in-flight scoring.
type ConfigHolder struct {
	current  atomic.Pointer[Snapshot]
	resolver *geography.Resolver
	cache    Store
	logger   ectologger.Logger
}

// NewConfigHolder compiles the initial config and logs any warnings it
// carries.
func NewConfigHolder(cfg EngineConfig, resolver *geography.Resolver, cache Store, logger ectologger.Logger) (*ConfigHolder, error) {
	snap, err := NewSnapshot(cfg, resolver)
	if err != nil {
		return nil, err
	}

	holder := &ConfigHolder{
		resolver: snap.resolver,
		cache:    cache,
		logger:   logger,
	}
	holder.current.Store(snap)
	holder.logWarnings(context.Background(), snap)

	return holder, nil
}

// Snapshot returns the active policy.
func (h *ConfigHolder) Snapshot() *Snapshot {
	return h.current.Load()
}

// Swap compiles cfg and makes it the active policy. The result cache is
// cleared so entries scored under the old policy don't linger; cache keys are
// version-scoped, so a failed clear only wastes space and is logged rather
// than returned. Swapping in a config with the same fingerprint keeps the
// active snapshot and its cache.
func (h *ConfigHolder) Swap(ctx context.Context, cfg EngineConfig) (*Snapshot, error) {
	snap, err := NewSnapshot(cfg, h.resolver)
	if err != nil {
		return nil, err
	}

	if active := h.current.Load(); active != nil && !fingerprint.HasChanged(active.Version, snap.Version) {
		h.logger.WithContext(ctx).WithFields(map[string]any{
			"config_version": snap.Version,
		}).Debug("Config swap matches the active policy; nothing to do")
		return active, nil
	}

	old := h.current.Swap(snap)

	if err := h.cache.Clear(ctx); err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("Failed to clear match cache after config swap")
	}

	fields := map[string]any{"config_version": snap.Version}
	if old != nil {
		fields["previous_version"] = old.Version
	}
	h.logger.WithContext(ctx).WithFields(fields).Info("Swapped matching config")
	h.logWarnings(ctx, snap)

	return snap, nil
}

func (h *ConfigHolder) logWarnings(ctx context.Context, snap *Snapshot) {
	log := h.logger.WithContext(ctx).WithFields(map[string]any{"config_version": snap.Version})
	for _, warning := range snap.warnings {
		log.Warnf("Config warning: %s", warning)
	}
}
