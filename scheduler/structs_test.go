package scheduler

import "github.com/elsevier-core-engineering/capshare/scheduler/structs"

// fakeJob is a minimal structs.Job test double: one map task and one
// reduce task of demand, consumed on first Obtain* call.
type fakeJob struct {
	id    string
	queue string
	user  string
	state structs.RunState

	priority int

	mapSlots, reduceSlots int
	memMB, vmemMB         int

	pendingMap, pendingReduce int
	runningMap, runningReduce int

	offSwitchAllowed bool
	reservedTrackers int

	localMapTaken, nonLocalMapTaken, reduceTaken bool
	localityIgnored                              bool
}

func (j *fakeJob) ID() string                { return j.id }
func (j *fakeJob) Queue() string             { return j.queue }
func (j *fakeJob) User() string              { return j.user }
func (j *fakeJob) RunState() structs.RunState { return j.state }
func (j *fakeJob) Priority() int             { return j.priority }

func (j *fakeJob) SlotsPerTask(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return j.mapSlots
	}
	return j.reduceSlots
}

func (j *fakeJob) MemoryMB(structs.TaskKind) int       { return j.memMB }
func (j *fakeJob) VirtualMemoryMB(structs.TaskKind) int { return j.vmemMB }

func (j *fakeJob) PendingTasks(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return j.pendingMap
	}
	return j.pendingReduce
}

func (j *fakeJob) RunningTasks(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return j.runningMap
	}
	return j.runningReduce
}

func (j *fakeJob) ReservedTrackers(structs.TaskKind) int { return j.reservedTrackers }

func (j *fakeJob) HasSpeculativeTask(structs.TaskKind, structs.Worker) bool { return false }

func (j *fakeJob) ScheduleOffSwitch(int) bool { return j.offSwitchAllowed }

func (j *fakeJob) MarkLocalityIgnored() { j.localityIgnored = true }

func (j *fakeJob) ObtainNewLocalMapTask(worker structs.Worker, availableSlots int) (*structs.Task, bool) {
	if j.localMapTaken || j.pendingMap == 0 || j.mapSlots > availableSlots {
		return nil, false
	}
	j.localMapTaken = true
	j.pendingMap--
	j.runningMap++
	return &structs.Task{ID: j.id + "-map-local", JobID: j.id, Kind: structs.KindMap, SlotsRequired: j.mapSlots}, true
}

func (j *fakeJob) ObtainNewNonLocalMapTask(worker structs.Worker, availableSlots int) (*structs.Task, bool) {
	if j.nonLocalMapTaken || j.pendingMap == 0 || j.mapSlots > availableSlots {
		return nil, false
	}
	j.nonLocalMapTaken = true
	j.pendingMap--
	j.runningMap++
	return &structs.Task{ID: j.id + "-map-offswitch", JobID: j.id, Kind: structs.KindMap, SlotsRequired: j.mapSlots, OffSwitch: true}, true
}

func (j *fakeJob) ObtainNewReduceTask(worker structs.Worker, availableSlots int) (*structs.Task, bool) {
	if j.reduceTaken || j.pendingReduce == 0 || j.reduceSlots > availableSlots {
		return nil, false
	}
	j.reduceTaken = true
	j.pendingReduce--
	j.runningReduce++
	return &structs.Task{ID: j.id + "-reduce", JobID: j.id, Kind: structs.KindReduce, SlotsRequired: j.reduceSlots}, true
}

// fakeWorker is a minimal structs.Worker test double with a fixed slot
// ceiling and no live occupancy beyond what the test sets directly.
type fakeWorker struct {
	name, host string

	maxMap, maxReduce           int
	occupiedMap, occupiedReduce int

	freeMem, freeVMem int

	reservations [2]*structs.Reservation
}

func newFakeWorker(name string, maxMap, maxReduce int) *fakeWorker {
	return &fakeWorker{
		name: name, host: name,
		maxMap: maxMap, maxReduce: maxReduce,
		freeMem: 1 << 30, freeVMem: 1 << 30,
	}
}

func (w *fakeWorker) Name() string { return w.name }
func (w *fakeWorker) Host() string { return w.host }

func (w *fakeWorker) MaxSlots(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return w.maxMap
	}
	return w.maxReduce
}

func (w *fakeWorker) OccupiedSlots(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return w.occupiedMap
	}
	return w.occupiedReduce
}

func (w *fakeWorker) FreeMemoryMB() int        { return w.freeMem }
func (w *fakeWorker) FreeVirtualMemoryMB() int { return w.freeVMem }

func (w *fakeWorker) Reservation(kind structs.TaskKind) (structs.Reservation, bool) {
	r := w.reservations[kind]
	if r == nil {
		return structs.Reservation{}, false
	}
	return *r, true
}

func (w *fakeWorker) Reserve(kind structs.TaskKind, job structs.Job, slots int) {
	w.reservations[kind] = &structs.Reservation{Job: job, SlotsReserved: slots}
}

func (w *fakeWorker) Unreserve(kind structs.TaskKind) {
	w.reservations[kind] = nil
}

// fakeCluster is a fixed-size structs.ClusterStatus test double.
type fakeCluster struct {
	maxMap, maxReduce, uniqueHosts int
}

func (c *fakeCluster) MaxMapTasks() int        { return c.maxMap }
func (c *fakeCluster) MaxReduceTasks() int     { return c.maxReduce }
func (c *fakeCluster) TaskTrackers() []structs.Worker { return nil }
func (c *fakeCluster) NumberOfUniqueHosts() int { return c.uniqueHosts }

// fakePoller is a no-op structs.InitializationPoller test double.
type fakePoller struct {
	starts, stops int
}

func (p *fakePoller) Start() { p.starts++ }
func (p *fakePoller) Stop()  { p.stops++ }

func pct(v float64) *float64 { return &v }

func singleQueueConfig(name string, capacity float64) *structs.SchedulerConfig {
	return &structs.SchedulerConfig{
		Queues: []*structs.QueueConfig{
			{Name: name, CapacityPercent: pct(capacity), MinimumUserLimitPercent: 0, EffectiveCapacityPercent: capacity},
		},
	}
}
