package structs

// Job is the scheduler's view of an externally-owned, multi-task job. The
// JobTracker (out of scope) retains ownership; the scheduler only ever reads
// state through this interface and calls the obtain* primitives to pull
// dispatchable work.
//
// Implementations must not block on I/O: obtain* and the predicate methods
// are called while the scheduler's single-writer lock is held.
type Job interface {
	ID() string
	Queue() string
	User() string
	RunState() RunState

	// Priority is consulted only for queues with SupportsPriorities set; jobs
	// in a queue without priorities are walked in submission order.
	Priority() int

	// SlotsPerTask returns the number of worker slots a single task of this
	// kind consumes (numSlotsPerMap / numSlotsPerReduce in the data model).
	SlotsPerTask(kind TaskKind) int

	// MemoryMB / VirtualMemoryMB are the physical and virtual memory
	// requirements of a single task of this kind, used by the memory
	// matcher when the cluster is configured to be memory-aware.
	MemoryMB(kind TaskKind) int
	VirtualMemoryMB(kind TaskKind) int

	PendingTasks(kind TaskKind) int
	RunningTasks(kind TaskKind) int

	// ReservedTrackers reports how many workers currently hold a
	// reservation for this job and kind.
	ReservedTrackers(kind TaskKind) int

	// HasSpeculativeTask reports whether a speculative-execution candidate
	// exists for this job, kind and worker. Must be side-effect free.
	HasSpeculativeTask(kind TaskKind, worker Worker) bool

	// ScheduleOffSwitch is the job's own opportunity throttle for
	// off-switch map assignment, consulted by the locality gate.
	ScheduleOffSwitch(numUniqueHosts int) bool

	// MarkLocalityIgnored is invoked once, when a worker's reservation for
	// this job is honored, so the job's next map-task lookup does not
	// re-apply locality preference to the reserved worker.
	MarkLocalityIgnored()

	// ObtainNewLocalMapTask / ObtainNewNonLocalMapTask / ObtainNewReduceTask
	// return a dispatchable task for worker, or ok=false if none is
	// currently available. availableSlots bounds the slot cost of any task
	// returned.
	ObtainNewLocalMapTask(worker Worker, availableSlots int) (*Task, bool)
	ObtainNewNonLocalMapTask(worker Worker, availableSlots int) (*Task, bool)
	ObtainNewReduceTask(worker Worker, availableSlots int) (*Task, bool)
}
