package aws

import (
	"sync"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// taggedWorker is a minimal structs.Worker backed by the slot counts
// discovered from an EC2 instance's WorkerTagKey tag. It is a reference
// implementation: a real deployment's task tracker heartbeat is the
// authoritative source of occupied-slot and free-memory telemetry, not
// EC2 tags, which only advertise the instance's static slot capacity.
type taggedWorker struct {
	mu sync.Mutex

	instanceID string
	host       string

	maxMap    int
	maxReduce int

	occupiedMap    int
	occupiedReduce int

	reservations [2]*structs.Reservation
}

func newTaggedWorker(instanceID, host string, mapSlots, reduceSlots int) *taggedWorker {
	return &taggedWorker{
		instanceID: instanceID,
		host:       host,
		maxMap:     mapSlots,
		maxReduce:  reduceSlots,
	}
}

func (w *taggedWorker) Name() string { return w.instanceID }
func (w *taggedWorker) Host() string { return w.host }

func (w *taggedWorker) MaxSlots(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return w.maxMap
	}
	return w.maxReduce
}

func (w *taggedWorker) OccupiedSlots(kind structs.TaskKind) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if kind == structs.KindMap {
		return w.occupiedMap
	}
	return w.occupiedReduce
}

// FreeMemoryMB and FreeVirtualMemoryMB have no EC2-tag-derived source;
// returning a large sentinel disables memory-aware scheduling for tagged
// workers regardless of the cluster's mapred configuration.
func (w *taggedWorker) FreeMemoryMB() int        { return 1 << 30 }
func (w *taggedWorker) FreeVirtualMemoryMB() int { return 1 << 30 }

func (w *taggedWorker) Reservation(kind structs.TaskKind) (structs.Reservation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := w.reservations[kind]
	if r == nil {
		return structs.Reservation{}, false
	}
	return *r, true
}

func (w *taggedWorker) Reserve(kind structs.TaskKind, job structs.Job, slots int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reservations[kind] = &structs.Reservation{Job: job, SlotsReserved: slots}
}

func (w *taggedWorker) Unreserve(kind structs.TaskKind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reservations[kind] = nil
}
