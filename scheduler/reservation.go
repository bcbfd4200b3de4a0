package scheduler

import "github.com/elsevier-core-engineering/capshare/scheduler/structs"

// honorReservation implements §4.E Step 1. If worker holds a reservation
// for kind, it is always consulted before any queue is walked; the boolean
// return reports whether a reservation existed (handled=true), in which
// case result is the final outcome for this call and the caller must not
// proceed to Step 2.
func (s *Scheduler) honorReservation(worker structs.Worker, kind structs.TaskKind,
	availableSlots int) (result structs.TaskLookupResult, handled bool) {

	resv, ok := worker.Reservation(kind)
	if !ok {
		return structs.TaskLookupResult{}, false
	}

	job := resv.Job

	if availableSlots < job.SlotsPerTask(kind) {
		// Not enough room yet; re-reserve with the current availability so a
		// later, more generous re-check can still find the reservation (F:
		// "replaced by a larger one for the same job" covers this path too,
		// since Reserve always replaces).
		worker.Reserve(kind, job, availableSlots)
		s.metrics.incReservationRenewed(job.Queue())
		return structs.MemoryBlocked(), true
	}

	worker.Unreserve(kind)
	s.metrics.incReservationReleased(job.Queue())

	if kind == structs.KindMap {
		job.MarkLocalityIgnored()
	}

	task, found := s.obtainNewTask(worker, job, kind, true, availableSlots)
	if !found {
		return structs.NoTask(), true
	}

	return structs.FoundTask(task, job), true
}

// reserveForShortage is called from the two-pass queue walk (§4.E
// getTaskFromQueue, Pass 1 only) when a job is memory-short but still has
// outstanding demand: it reserves everything currently free on the worker
// for that job (§4.F).
func (s *Scheduler) reserveForShortage(worker structs.Worker, kind structs.TaskKind,
	job structs.Job, availableSlots int) {

	worker.Reserve(kind, job, availableSlots)
	s.metrics.incReservationCreated(job.Queue())
}
