// Package metrics provides observability hooks for index builds.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks and carries
// zero overhead when disabled. Swap in PrometheusRecorder to activate.
package metrics

import "time"

// Recorder defines observability hooks for index builds. Implementations
// may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	IncPagesIndexed()
	AddRecordsEmitted(n int)
	IncCollisionOverwritten()
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPagesIndexed()                   {}
func (NoopRecorder) AddRecordsEmitted(int)              {}
func (NoopRecorder) IncCollisionOverwritten()           {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
