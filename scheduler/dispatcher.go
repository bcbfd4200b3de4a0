package scheduler

import (
	"time"

	"github.com/elsevier-core-engineering/capshare/helper"
	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// AssignTasks is the Top-level Dispatcher (§4.G), invoked once per worker
// heartbeat. It recomputes per-queue capacity slots if the cluster's
// advertised map/reduce task ceilings changed since the previous call,
// rebuilds every TSI from scratch by walking running jobs (the scheduler
// never trusts incremental bookkeeping to stay correct across heartbeats),
// then runs the map pass (multi-assign, bounded by the Locality Gate) and
// the reduce pass (single-assign).
func (s *Scheduler) AssignTasks(worker structs.Worker) []*structs.Task {
	start := time.Now()
	defer s.metrics.measureHeartbeat(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil
	}

	s.refreshCapacity()
	s.rebuildTSIs()

	var assigned []*structs.Task

	assigned = append(assigned, s.assignMapTasks(worker)...)
	assigned = append(assigned, s.assignReduceTasks(worker)...)

	return assigned
}

// refreshCapacity recomputes every queue's absolute slot capacities
// whenever the cluster's total map or reduce task ceiling has moved since
// the last heartbeat (cluster resize, node join/leave). Capacities are
// percentages of the cluster total, so they are meaningless to cache
// across a ceiling change.
func (s *Scheduler) refreshCapacity() {
	if s.cluster == nil {
		return
	}

	maxMap := s.cluster.MaxMapTasks()
	maxReduce := s.cluster.MaxReduceTasks()

	if s.capacityPrimed && maxMap == s.prevMaxMapTasks && maxReduce == s.prevMaxReduceTasks {
		return
	}

	for _, q := range s.queueOrder {
		recomputeQueueCapacity(q, structs.KindMap, maxMap)
		recomputeQueueCapacity(q, structs.KindReduce, maxReduce)
	}

	s.prevMaxMapTasks = maxMap
	s.prevMaxReduceTasks = maxReduce
	s.capacityPrimed = true

	logging.Debug("scheduler: capacity refreshed (maxMap=%d maxReduce=%d)", maxMap, maxReduce)
}

func recomputeQueueCapacity(q *structs.Queue, kind structs.TaskKind, clusterTotal int) {
	tsi := q.TSIFor(kind)

	if q.Config.CapacityPercent == nil {
		tsi.CapacitySlots = 0
		tsi.MaxCapacitySlots = structs.UnboundedCapacity
		return
	}

	// A slightly negative configured percentage (residual-split underflow
	// from a rounding edge case) must never produce a negative slot count,
	// and a misconfigured >100% queue can never claim more than the
	// cluster actually has.
	raw := *q.Config.CapacityPercent * float64(clusterTotal) / 100
	tsi.CapacitySlots = int(helper.Min(helper.Max(0, raw), float64(clusterTotal)))

	if q.Config.MaxCapacityPercent == nil {
		tsi.MaxCapacitySlots = structs.UnboundedCapacity
		return
	}
	tsi.MaxCapacitySlots = int(helper.Max(0, *q.Config.MaxCapacityPercent*float64(clusterTotal)/100))
}

// rebuildTSIs implements the self-healing rebuild from SPEC_FULL §4.A/4.G:
// every TSI's running counters are reset to zero, then recomputed from the
// live set of running jobs the scheduler tracks. This deliberately never
// trusts incremental increments/decrements to have stayed consistent
// across a heartbeat boundary.
func (s *Scheduler) rebuildTSIs() {
	for _, q := range s.queueOrder {
		q.Map.Reset()
		q.Reduce.Reset()
		q.NumJobsByUser = make(map[string]int)
	}

	for queueName, jobs := range s.jobsByQueue {
		q, ok := s.queues[queueName]
		if !ok {
			continue
		}

		for _, job := range jobs {
			if job.RunState() != structs.JobRunning {
				continue
			}

			q.NumJobsByUser[job.User()]++

			q.Map.AddUsage(job.User(), job.RunningTasks(structs.KindMap), job.SlotsPerTask(structs.KindMap))
			q.Reduce.AddUsage(job.User(), job.RunningTasks(structs.KindReduce), job.SlotsPerTask(structs.KindReduce))
		}

		s.checkQueueInvariants(q)
		s.metrics.setQueueRatio(q.Config.Name, "map", q.Map.Ratio())
		s.metrics.setQueueRatio(q.Config.Name, "reduce", q.Reduce.Ratio())
	}
}

// checkQueueInvariants enforces I1/I2/I6-style structural sanity on a
// freshly rebuilt TSI pair and feeds the failsafe circuit breaker (§4.K):
// an occupied count that exceeds the cluster-wide ceiling the TSI was
// rebuilt against can only mean a Worker or Job implementation violated
// its contract.
func (s *Scheduler) checkQueueInvariants(q *structs.Queue) {
	violated := false

	if q.Map.NumSlotsOccupied < 0 || q.Reduce.NumSlotsOccupied < 0 {
		violated = true
	}
	for user, occupied := range q.Map.NumSlotsOccupiedByUser {
		if occupied > q.Map.NumSlotsOccupied && occupied > 0 {
			logging.Warning("scheduler: queue %q user %q map usage %d exceeds queue total %d",
				q.Config.Name, user, occupied, q.Map.NumSlotsOccupied)
			violated = true
		}
	}

	if violated {
		s.recordInvariantViolation(q, "TSI usage accounting inconsistent with per-user totals")
		return
	}
	s.recordInvariantHeld(q)
}

// assignMapTasks drives the multi-assign map pass: it keeps calling
// assignOne for additional map slots on worker until either there is no
// more free capacity, nothing more is runnable, or the worker becomes
// memory-blocked. The Locality Gate (§4.H) caps off-switch assignments to
// at most one per heartbeat per worker; once spent, subsequent calls in
// the same heartbeat pass allowOffSwitch=false.
//
// worker.OccupiedSlots is a heartbeat-time snapshot and does not change
// for the duration of this call, so every task committed here is tracked
// in the local committed counter; without it, free would never shrink and
// a single heartbeat could assign far more map tasks than the worker
// actually has slots for.
func (s *Scheduler) assignMapTasks(worker structs.Worker) []*structs.Task {
	var out []*structs.Task
	offSwitchSpent := false
	committed := 0

	for {
		free := worker.MaxSlots(structs.KindMap) - worker.OccupiedSlots(structs.KindMap) - committed
		if free <= 0 {
			break
		}

		result := s.assignOne(worker, structs.KindMap, free, !offSwitchSpent)

		switch result.Tag {
		case structs.LocalTaskFound:
			s.commitAssignment(result, structs.KindMap)
			out = append(out, result.Task)
			committed += result.Task.SlotsRequired
		case structs.OffSwitchTaskFound:
			s.commitAssignment(result, structs.KindMap)
			out = append(out, result.Task)
			committed += result.Task.SlotsRequired
			offSwitchSpent = true
		case structs.TaskFailingMemoryRequirement:
			return out
		case structs.NoTaskFound:
			return out
		}
	}

	return out
}

// assignReduceTasks is the single-assign reduce pass: at most one reduce
// task is handed out per heartbeat per worker, and only when it is local
// (reduce tasks carry no locality concept of their own in this scheduler,
// so LocalTaskFound is the only variant ObtainNewReduceTask ever produces).
func (s *Scheduler) assignReduceTasks(worker structs.Worker) []*structs.Task {
	free := worker.MaxSlots(structs.KindReduce) - worker.OccupiedSlots(structs.KindReduce)
	if free <= 0 {
		return nil
	}

	result := s.assignOne(worker, structs.KindReduce, free, false)
	if result.Tag != structs.LocalTaskFound {
		return nil
	}

	s.commitAssignment(result, structs.KindReduce)
	return []*structs.Task{result.Task}
}

// commitAssignment applies the intra-heartbeat TSI delta for a freshly
// dispatched task immediately, rather than waiting for the next
// heartbeat's rebuildTSIs: without this, a worker with several free map
// slots could be handed more tasks than its capacity allows within the
// same AssignTasks call, since the queue's occupied counters would not yet
// reflect the task just handed out.
func (s *Scheduler) commitAssignment(result structs.TaskLookupResult, kind structs.TaskKind) {
	q, ok := s.queues[result.Job.Queue()]
	if !ok {
		return
	}
	q.TSIFor(kind).ApplyDelta(result.Job.User(), result.Task.SlotsRequired)
}
