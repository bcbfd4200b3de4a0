package scheduler

import (
	"sort"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// orderedQueues implements the Queue Comparator (§4.C): a stable ascending
// sort by fill ratio, recomputed fresh on every call since ratios change
// between task emissions within a single heartbeat. sort.SliceStable
// preserves the registration order baseline for queues tied on ratio, which
// is what "ties broken arbitrarily but stably" actually requires.
func (s *Scheduler) orderedQueues(kind structs.TaskKind) []*structs.Queue {
	ordered := make([]*structs.Queue, len(s.queueOrder))
	copy(ordered, s.queueOrder)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TSIFor(kind).Ratio() < ordered[j].TSIFor(kind).Ratio()
	})

	return ordered
}
