package shelfstore

import (
	"context"
	"fmt"
	"time"
)

// Bootstrap runs the one-time startup provisioning: ensure the book search
// index exists, then populate the author suggestion dictionary. The two
// steps run sequentially, in that order, before the process accepts
// traffic. Any failure aborts startup; both steps are idempotent, so a
// crashed bootstrap can simply be re-run.
func Bootstrap(ctx context.Context, provisioner *SearchIndexProvisioner, suggestions *SuggestionDictionaryBuilder, logger Logger, metrics Metrics) error {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if metrics == nil {
		metrics = &NoOpMetrics{}
	}

	start := time.Now()
	defer func() {
		metrics.Timing(MetricBootstrapDuration, time.Since(start))
	}()

	if err := provisioner.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("bootstrap search index: %w", err)
	}
	if err := suggestions.Build(ctx); err != nil {
		return fmt.Errorf("bootstrap suggestion dictionary: %w", err)
	}

	logger.Info("bootstrap complete", "took", time.Since(start).String())
	return nil
}
