// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_handled_total",
			Help: "Total number of incoming messages handled, by outcome",
		},
		[]string{"outcome"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_stage_failures_total",
			Help: "Total number of pipeline stage failures",
		},
		[]string{"task_type", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_stage_duration_seconds",
			Help: "Duration of pipeline stage processing in seconds",
		},
		[]string{"task_type"},
	)

	RepliesTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_replies_truncated_total",
			Help: "Total number of replies that had to be shortened",
		},
	)
)
