package scheduler

import (
	"sort"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// orderedJobs returns jobs sorted by descending priority, falling back to
// submission order (the slice's existing order, since jobsByQueue always
// appends in arrival order) for jobs of equal priority. Queues that do not
// support priorities (§4.A QueueConfig.SupportsPriorities) never populate
// a job with anything but the zero priority, so the sort degenerates to a
// no-op FIFO pass for them.
func orderedJobs(jobs []structs.Job) []structs.Job {
	ordered := make([]structs.Job, len(jobs))
	copy(ordered, jobs)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() > ordered[j].Priority()
	})

	return ordered
}

// obtainNewTask picks a task for job on worker, trying the local slot
// first and falling back to off-switch for map tasks when the job's own
// scheduling policy (ObtainNewNonLocalMapTask's §4.H counterpart,
// ScheduleOffSwitch) allows it. It is used both by the reservation
// fast-path (§4.E Step 1) and indirectly informs getTaskFromQueue's Pass 2.
func (s *Scheduler) obtainNewTask(worker structs.Worker, job structs.Job, kind structs.TaskKind,
	bypassUserLimit bool, availableSlots int) (*structs.Task, bool) {

	if kind != structs.KindMap {
		return job.ObtainNewReduceTask(worker, availableSlots)
	}

	if t, ok := job.ObtainNewLocalMapTask(worker, availableSlots); ok {
		return t, true
	}

	if s.cluster != nil && job.ScheduleOffSwitch(s.cluster.NumberOfUniqueHosts()) {
		return job.ObtainNewNonLocalMapTask(worker, availableSlots)
	}

	return nil, false
}

// getTaskFromQueue is the two-pass queue walk at the heart of §4.E. Pass 1
// looks only at local (or, for reduce, unqualified) task demand across
// every running job in the queue, in priority order, honoring the user
// limit and the queue's maximum-capacity ceiling; a job that is memory-
// short but still has pending demand and room to reserve reserves the
// worker's remaining capacity (§4.F) and ends the walk immediately rather
// than letting a lower-priority job jump ahead of a reservation-worthy
// one. Pass 2, map-only and gated by allowOffSwitch (the dispatcher's
// Locality Gate, §4.H), retries every job for an off-switch assignment and
// deliberately ignores the user limit: it exists so a single eligible user
// isn't starved of off-switch slots on a heartbeat where another user's
// merely-queued job inflates ActiveUsers() and depresses everyone else's
// share (§4.E, §9 fairness/liveness knob).
func (s *Scheduler) getTaskFromQueue(q *structs.Queue, kind structs.TaskKind, worker structs.Worker,
	availableSlots int, allowOffSwitch bool) structs.TaskLookupResult {

	jobs := orderedJobs(s.jobsByQueue[q.Config.Name])
	tsi := q.TSIFor(kind)

	for _, job := range jobs {
		if job.RunState() != structs.JobRunning {
			continue
		}
		if tsi.OverMaxCapacity(job.SlotsPerTask(kind)) {
			continue
		}
		if isOverUserLimit(q, kind, job) {
			s.metrics.incUserLimitBlocked(q.Config.Name)
			continue
		}

		if !memoryMatches(s.memory, job, kind, worker, availableSlots) {
			if job.PendingTasks(kind) > 0 && job.ReservedTrackers(kind) < job.PendingTasks(kind) {
				s.reserveForShortage(worker, kind, job, availableSlots)
				return structs.MemoryBlocked()
			}
			continue
		}

		if kind == structs.KindMap {
			if t, ok := job.ObtainNewLocalMapTask(worker, availableSlots); ok {
				return structs.FoundTask(t, job)
			}
			continue
		}

		if t, ok := job.ObtainNewReduceTask(worker, availableSlots); ok {
			return structs.FoundTask(t, job)
		}
	}

	if kind != structs.KindMap || !allowOffSwitch {
		return structs.NoTask()
	}

	for _, job := range jobs {
		if job.RunState() != structs.JobRunning {
			continue
		}
		if tsi.OverMaxCapacity(job.SlotsPerTask(kind)) {
			continue
		}
		if !memoryMatches(s.memory, job, kind, worker, availableSlots) {
			continue
		}
		if s.cluster == nil || !job.ScheduleOffSwitch(s.cluster.NumberOfUniqueHosts()) {
			continue
		}
		if t, ok := job.ObtainNewNonLocalMapTask(worker, availableSlots); ok {
			s.metrics.incOffSwitchSkipped(q.Config.Name) // counts off-switch attempts that succeeded too; see dispatcher for the gate itself
			return structs.FoundTask(t, job)
		}
	}

	return structs.NoTask()
}

// assignOne is the top-level per-worker, per-kind lookup (§4.E entry
// point): Step 1 always honors an existing reservation first; Step 2 walks
// queues in ascending fill-ratio order (§4.C), skipping any queue whose
// failsafe circuit breaker is tripped (SPEC_FULL §4.K) or whose maximum
// capacity would be exceeded by one more task of this kind. The walk stops
// at the first queue that returns anything other than NoTask.
func (s *Scheduler) assignOne(worker structs.Worker, kind structs.TaskKind, availableSlots int,
	allowOffSwitch bool) structs.TaskLookupResult {

	if result, handled := s.honorReservation(worker, kind, availableSlots); handled {
		return result
	}

	for _, q := range s.orderedQueues(kind) {
		if failsafeBlocked(q) {
			continue
		}

		tsi := q.TSIFor(kind)
		if tsi.OverMaxCapacity(1) {
			continue
		}

		result := s.getTaskFromQueue(q, kind, worker, availableSlots, allowOffSwitch)
		if result.Tag != structs.NoTaskFound {
			if result.Tag != structs.TaskFailingMemoryRequirement {
				s.metrics.incTaskAssigned(q.Config.Name, kind.String())
			}
			return result
		}
	}

	return structs.NoTask()
}
