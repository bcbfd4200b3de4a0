package scheduler

import (
	"fmt"
	"time"

	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// FailsafeNotifier is the outbound collaborator paged when a queue's
// circuit breaker trips, mirroring the teacher's notifier.Provider
// abstraction (PagerDuty/OpsGenie are concrete implementations living in
// the notifier package).
type FailsafeNotifier interface {
	NotifyFailsafeTrip(queue string, violations int) error
}

// failsafeBlocked reports whether q is currently tripped and not under an
// admin override, per SPEC_FULL §4.K: a tripped queue is skipped entirely
// by both the map and reduce scheduling passes until reset.
func failsafeBlocked(q *structs.Queue) bool {
	return q.Failsafe.Tripped && !q.Failsafe.AdminOverride
}

// recordInvariantViolation is called whenever a component detects a state
// that should be structurally impossible (e.g. occupied slots regressing
// negative, or a user's occupied count exceeding the queue total). It
// implements the consecutive-violation counter and trips the breaker on
// the configured threshold (DefaultFailsafeThreshold unless overridden).
func (s *Scheduler) recordInvariantViolation(q *structs.Queue, reason string) {
	s.metrics.incFailsafeViolation(q.Config.Name)

	q.Failsafe.ConsecutiveViolations++
	logging.Warning("scheduler: queue %q invariant violation (%d/%d): %s",
		q.Config.Name, q.Failsafe.ConsecutiveViolations, s.failsafeThreshold, reason)

	if q.Failsafe.ConsecutiveViolations < s.failsafeThreshold {
		return
	}

	if q.Failsafe.Tripped {
		return
	}

	q.Failsafe.Tripped = true
	q.Failsafe.TrippedAt = time.Now()
	s.metrics.incFailsafeTrip(q.Config.Name)

	logging.Error("scheduler: queue %q failsafe tripped after %d consecutive violations",
		q.Config.Name, q.Failsafe.ConsecutiveViolations)

	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyFailsafeTrip(q.Config.Name, q.Failsafe.ConsecutiveViolations); err != nil {
		logging.Error("scheduler: failsafe notification failed for queue %q: %v", q.Config.Name, err)
	}
}

// recordInvariantHeld resets the consecutive-violation counter; it is
// called once per heartbeat for every queue that passed its invariant
// checks cleanly.
func (s *Scheduler) recordInvariantHeld(q *structs.Queue) {
	q.Failsafe.ConsecutiveViolations = 0
}

// ResetFailsafe clears a tripped queue's breaker, the only supported
// recovery path short of an AdminOverride (§7 kind 4: administrative
// intervention required).
func (s *Scheduler) ResetFailsafe(queueName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[queueName]
	if !ok {
		return fmt.Errorf("scheduler: unknown queue %q", queueName)
	}

	q.Failsafe = structs.FailsafeState{}
	s.metrics.incFailsafeReset(queueName)
	logging.Info("scheduler: queue %q failsafe reset", queueName)
	return nil
}
