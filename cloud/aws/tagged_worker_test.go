package aws

import (
	"testing"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

func TestTaggedWorker_ReserveAndUnreserve(t *testing.T) {
	w := newTaggedWorker("i-1", "10.0.0.1", 4, 2)

	if _, ok := w.Reservation(structs.KindMap); ok {
		t.Fatalf("expected no reservation before Reserve is called")
	}

	w.Reserve(structs.KindMap, nil, 2)

	r, ok := w.Reservation(structs.KindMap)
	if !ok {
		t.Fatalf("expected a reservation to be present")
	}
	if r.SlotsReserved != 2 {
		t.Fatalf("expected 2 reserved slots, got %d", r.SlotsReserved)
	}

	if _, ok := w.Reservation(structs.KindReduce); ok {
		t.Fatalf("expected reduce reservation to be independent of map")
	}

	w.Unreserve(structs.KindMap)
	if _, ok := w.Reservation(structs.KindMap); ok {
		t.Fatalf("expected reservation to be cleared after Unreserve")
	}
}

func TestTaggedWorker_MaxSlotsAndName(t *testing.T) {
	w := newTaggedWorker("i-1", "10.0.0.1", 4, 2)

	if w.Name() != "i-1" {
		t.Fatalf("expected name i-1, got %s", w.Name())
	}
	if w.Host() != "10.0.0.1" {
		t.Fatalf("expected host 10.0.0.1, got %s", w.Host())
	}
	if w.MaxSlots(structs.KindMap) != 4 {
		t.Fatalf("expected 4 max map slots, got %d", w.MaxSlots(structs.KindMap))
	}
	if w.MaxSlots(structs.KindReduce) != 2 {
		t.Fatalf("expected 2 max reduce slots, got %d", w.MaxSlots(structs.KindReduce))
	}
	if w.OccupiedSlots(structs.KindMap) != 0 {
		t.Fatalf("expected 0 occupied map slots for a freshly discovered instance, got %d", w.OccupiedSlots(structs.KindMap))
	}
}
