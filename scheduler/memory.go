package scheduler

import "github.com/elsevier-core-engineering/capshare/scheduler/structs"

// memoryMatches is the Memory Matcher (§4.B). It is pure: given a job, task
// kind, worker and the slot budget already computed by the caller, it
// reports whether the worker currently has room for one task of that job
// and kind.
func memoryMatches(mem structs.GlobalMemoryConfig, job structs.Job, kind structs.TaskKind,
	worker structs.Worker, availableSlots int) bool {

	if job.SlotsPerTask(kind) > availableSlots {
		return false
	}

	if !mem.MemoryAware() {
		return true
	}

	return worker.FreeMemoryMB() >= job.MemoryMB(kind) &&
		worker.FreeVirtualMemoryMB() >= job.VirtualMemoryMB(kind)
}
