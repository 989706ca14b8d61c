package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	gradingOutcomesTotal   *prometheus.CounterVec
	extractionFallbackHits *prometheus.CounterVec
	gradingQueueDropsTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the grading pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		gradingOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_outcomes_total",
			Help: "Total grading attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"})

		extractionFallbackHits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extraction_fallbacks_total",
			Help: "Responses where the structured extractor substituted the task fallback.",
		}, []string{"task"})

		gradingQueueDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grading_queue_drops_total",
			Help: "Grading jobs dropped because the queue was full.",
		})

		prometheus.MustRegister(gradingOutcomesTotal, extractionFallbackHits, gradingQueueDropsTotal)
	})
}

// GradingOutcomes exposes the counter for grading attempts.
func GradingOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingOutcomesTotal
}

// ExtractionFallbacks exposes the counter for extractor degradations.
func ExtractionFallbacks() *prometheus.CounterVec {
	RegisterMetrics()
	return extractionFallbackHits
}

// GradingQueueDrops exposes the counter for dropped grading jobs.
func GradingQueueDrops() prometheus.Counter {
	RegisterMetrics()
	return gradingQueueDropsTotal
}
