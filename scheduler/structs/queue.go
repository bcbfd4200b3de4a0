package structs

import "time"

// UnboundedCapacity is the sentinel MaxCapacitySlots value for a queue with
// no configured maximum-capacity.
const UnboundedCapacity = -1

// TSI is the per-queue-per-task-kind counter set described by the data
// model. It is rebuilt from scratch every heartbeat (resetTaskVars) rather
// than maintained incrementally, which is what makes the scheduler
// self-healing: transient mis-accounting from a single bad heartbeat can
// never accumulate.
type TSI struct {
	CapacitySlots    int
	MaxCapacitySlots int // UnboundedCapacity when unset

	NumRunningTasks        int
	NumSlotsOccupied       int
	NumSlotsOccupiedByUser map[string]int
}

// Reset zeros the counters rebuilt each heartbeat. CapacitySlots and
// MaxCapacitySlots are left untouched; they only change when cluster
// capacity changes.
func (t *TSI) Reset() {
	t.NumRunningTasks = 0
	t.NumSlotsOccupied = 0
	t.NumSlotsOccupiedByUser = make(map[string]int)
}

// AddUsage folds one job's running-task usage into the counters. guard
// mirrors the nil-map guard the base capacity scheduler's map-side TSI
// update uses; see the Open Question in the design notes about the
// reduce-side scheduler's historical omission of this guard, which this
// implementation deliberately does not reproduce.
func (t *TSI) AddUsage(user string, runningTasks, slotsPerTask int) {
	if runningTasks <= 0 {
		return
	}
	slots := runningTasks * slotsPerTask
	t.NumRunningTasks += runningTasks
	t.NumSlotsOccupied += slots
	if t.NumSlotsOccupiedByUser == nil {
		t.NumSlotsOccupiedByUser = make(map[string]int)
	}
	t.NumSlotsOccupiedByUser[user] += slots
}

// ApplyDelta is used intra-heartbeat, immediately after a task is chosen for
// dispatch, so that the next queue-ratio comparison within the same
// heartbeat reflects the slot that was just committed.
func (t *TSI) ApplyDelta(user string, slots int) {
	t.NumRunningTasks++
	t.NumSlotsOccupied += slots
	if t.NumSlotsOccupiedByUser == nil {
		t.NumSlotsOccupiedByUser = make(map[string]int)
	}
	t.NumSlotsOccupiedByUser[user] += slots
}

// Ratio is the queue-ordering key: occupied/capacity, or 1.0 when capacity
// is zero so an unconfigured-for-this-heartbeat queue sorts as "full"
// rather than dividing by zero.
func (t *TSI) Ratio() float64 {
	if t.CapacitySlots <= 0 {
		return 1.0
	}
	return ratioOf(t.NumSlotsOccupied, t.CapacitySlots)
}

// OverMaxCapacity reports whether admitting increment more occupied slots
// would exceed the queue's configured maximum-capacity. An unset maximum
// never trips.
func (t *TSI) OverMaxCapacity(increment int) bool {
	if t.MaxCapacitySlots == UnboundedCapacity {
		return false
	}
	return t.NumSlotsOccupied+increment > t.MaxCapacitySlots
}

// FailsafeState tracks the failsafe circuit breaker (SPEC_FULL §4.K) for a
// single queue.
type FailsafeState struct {
	ConsecutiveViolations int
	Tripped               bool
	TrippedAt             time.Time
	AdminOverride         bool
}

// Queue is the runtime state for one admission bucket: its configuration,
// its TSI for each task kind, the distinct-job-count-by-user map (QSI), and
// its failsafe state.
type Queue struct {
	Config *QueueConfig

	Map    TSI
	Reduce TSI

	NumJobsByUser map[string]int

	Failsafe FailsafeState
}

// NewQueue builds a Queue in its initial, empty state for cfg.
func NewQueue(cfg *QueueConfig) *Queue {
	return &Queue{
		Config:        cfg,
		NumJobsByUser: make(map[string]int),
		Map: TSI{
			MaxCapacitySlots: UnboundedCapacity,
		},
		Reduce: TSI{
			MaxCapacitySlots: UnboundedCapacity,
		},
	}
}

// TSIFor returns a pointer to the queue's TSI for kind, so callers can
// mutate it in place.
func (q *Queue) TSIFor(kind TaskKind) *TSI {
	if kind == KindMap {
		return &q.Map
	}
	return &q.Reduce
}

// ActiveUsers is the count of distinct users with at least one job
// submitted to the queue, used by the user-limit evaluator.
func (q *Queue) ActiveUsers() int {
	return len(q.NumJobsByUser)
}
