package scheduler

import (
	"testing"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

type fakeNotifier struct {
	calls int
	queue string
}

func (n *fakeNotifier) NotifyFailsafeTrip(queue string, violations int) error {
	n.calls++
	n.queue = queue
	return nil
}

func TestFailsafe_TripsAfterThresholdAndNotifies(t *testing.T) {
	s := New()
	s.SetFailsafeThreshold(2)
	notifier := &fakeNotifier{}
	s.SetNotifier(notifier)

	if err := s.Start(singleQueueConfig("default", 100), &fakeCluster{maxMap: 4, maxReduce: 4, uniqueHosts: 1}, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	q := s.queues["default"]

	s.recordInvariantViolation(q, "test violation")
	if q.Failsafe.Tripped {
		t.Fatal("expected the breaker not to trip before reaching the threshold")
	}

	s.recordInvariantViolation(q, "test violation")
	if !q.Failsafe.Tripped {
		t.Fatal("expected the breaker to trip once the threshold is reached")
	}
	if notifier.calls != 1 || notifier.queue != "default" {
		t.Fatalf("expected the notifier to fire once for queue default, got %d calls for %q", notifier.calls, notifier.queue)
	}
}

func TestFailsafe_HeldResetsConsecutiveCount(t *testing.T) {
	s := New()
	if err := s.Start(singleQueueConfig("default", 100), &fakeCluster{maxMap: 4, maxReduce: 4, uniqueHosts: 1}, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	q := s.queues["default"]

	s.recordInvariantViolation(q, "test violation")
	s.recordInvariantHeld(q)

	if q.Failsafe.ConsecutiveViolations != 0 {
		t.Fatalf("expected ConsecutiveViolations to reset to 0, got %d", q.Failsafe.ConsecutiveViolations)
	}
}

func TestFailsafe_TrippedQueueBlocksAssignment(t *testing.T) {
	s := New()
	s.SetFailsafeThreshold(1)
	if err := s.Start(singleQueueConfig("default", 100), &fakeCluster{maxMap: 4, maxReduce: 4, uniqueHosts: 1}, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	job := &fakeJob{id: "j1", queue: "default", user: "alice", state: structs.JobRunning, mapSlots: 1, pendingMap: 1}
	if err := s.JobAdded(job); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	s.recordInvariantViolation(s.queues["default"], "forced trip for test")

	tasks := s.AssignTasks(newFakeWorker("w1", 1, 0))
	if len(tasks) != 0 {
		t.Fatalf("expected a tripped failsafe to block assignment entirely, got %d tasks", len(tasks))
	}
}

func TestFailsafe_ResetFailsafeClearsState(t *testing.T) {
	s := New()
	s.SetFailsafeThreshold(1)
	if err := s.Start(singleQueueConfig("default", 100), &fakeCluster{maxMap: 4, maxReduce: 4, uniqueHosts: 1}, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	s.recordInvariantViolation(s.queues["default"], "forced trip for test")
	if !s.queues["default"].Failsafe.Tripped {
		t.Fatal("expected the queue to be tripped before reset")
	}

	if err := s.ResetFailsafe("default"); err != nil {
		t.Fatalf("unexpected error resetting failsafe: %s", err)
	}
	if s.queues["default"].Failsafe.Tripped {
		t.Fatal("expected ResetFailsafe to clear the tripped state")
	}
}

func TestFailsafe_ResetFailsafeUnknownQueue(t *testing.T) {
	s := New()
	if err := s.Start(singleQueueConfig("default", 100), &fakeCluster{maxMap: 4, maxReduce: 4, uniqueHosts: 1}, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if err := s.ResetFailsafe("missing"); err == nil {
		t.Fatal("expected ResetFailsafe to error for an unknown queue")
	}
}
