package metrics

import "time"

// RecordEnrichmentRun records the outcome and duration of a pipeline run.
func RecordEnrichmentRun(cancelled bool, duration time.Duration) {
	outcome := "completed"
	if cancelled {
		outcome = "cancelled"
	}
	EnrichmentRunsTotal.WithLabelValues(outcome).Inc()
	EnrichmentRunDuration.Observe(duration.Seconds())
}

// RecordEnrichmentTitles records how many titles a run resolved and skipped.
func RecordEnrichmentTitles(resolved, skipped int) {
	if resolved > 0 {
		EnrichmentTitlesTotal.WithLabelValues("resolved").Add(float64(resolved))
	}
	if skipped > 0 {
		EnrichmentTitlesTotal.WithLabelValues("skipped").Add(float64(skipped))
	}
}

// RecordProviderRequest records one provider call.
// Result is "success" or the miss reason (no_match, unavailable, ...).
func RecordProviderRequest(provider, operation, result string, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(provider, operation, result).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordGroupingAmbiguity records a demoted duplicate winner.
func RecordGroupingAmbiguity() {
	AwardGroupingAmbiguities.Inc()
}

// RecordCatalogEntry records the load result of one award catalog entry.
func RecordCatalogEntry(ceremony, result string) {
	AwardCatalogEntriesTotal.WithLabelValues(ceremony, result).Inc()
}

// SetProviderCircuitState publishes a breaker state (0 closed, 1 half-open, 2 open).
func SetProviderCircuitState(provider string, state int) {
	ProviderCircuitState.WithLabelValues(provider).Set(float64(state))
}

// RecordDBRetry records how a retried database write ended.
func RecordDBRetry(outcome string) {
	DBRetriesTotal.WithLabelValues(outcome).Inc()
}
