package scheduler

import (
	"time"

	"github.com/armon/go-metrics"
)

// metricsSink wraps armon/go-metrics the way the teacher's replicator
// package emits operational counters: every call site names its own key
// path, there is no central registry of metric names to keep in sync.
type metricsSink struct{}

func (metricsSink) incReservationCreated(queue string) {
	metrics.IncrCounter([]string{"scheduler", "reservation", "created", queue}, 1)
}

func (metricsSink) incReservationRenewed(queue string) {
	metrics.IncrCounter([]string{"scheduler", "reservation", "renewed", queue}, 1)
}

func (metricsSink) incReservationReleased(queue string) {
	metrics.IncrCounter([]string{"scheduler", "reservation", "released", queue}, 1)
}

func (metricsSink) incTaskAssigned(queue string, kind string) {
	metrics.IncrCounter([]string{"scheduler", "task", "assigned", queue, kind}, 1)
}

func (metricsSink) incUserLimitBlocked(queue string) {
	metrics.IncrCounter([]string{"scheduler", "userlimit", "blocked", queue}, 1)
}

func (metricsSink) incOffSwitchSkipped(queue string) {
	metrics.IncrCounter([]string{"scheduler", "offswitch", "skipped", queue}, 1)
}

func (metricsSink) incFailsafeViolation(queue string) {
	metrics.IncrCounter([]string{"scheduler", "failsafe", "violation", queue}, 1)
}

func (metricsSink) incFailsafeTrip(queue string) {
	metrics.IncrCounter([]string{"scheduler", "failsafe", "trip", queue}, 1)
}

func (metricsSink) incFailsafeReset(queue string) {
	metrics.IncrCounter([]string{"scheduler", "failsafe", "reset", queue}, 1)
}

func (metricsSink) setQueueRatio(queue string, kind string, ratio float64) {
	metrics.SetGauge([]string{"scheduler", "queue", "ratio", queue, kind}, float32(ratio))
}

func (metricsSink) measureHeartbeat(start time.Time) {
	metrics.MeasureSince([]string{"scheduler", "heartbeat"}, start)
}
