package scheduler

import (
	"math"

	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// isOverUserLimit is the User-Limit Evaluator (§4.D). It computes the
// dynamic per-user share of the queue's current capacity and reports
// whether job's user has already reached or exceeded it.
func isOverUserLimit(q *structs.Queue, kind structs.TaskKind, job structs.Job) bool {
	tsi := q.TSIFor(kind)

	currentCapacity := tsi.CapacitySlots
	if tsi.NumSlotsOccupied >= tsi.CapacitySlots {
		currentCapacity = tsi.NumSlotsOccupied + job.SlotsPerTask(kind)
	}

	activeUsers := q.ActiveUsers()
	if activeUsers == 0 {
		activeUsers = 1
	}

	limitByUsers := ceilDiv(currentCapacity, activeUsers)
	limitByMinimum := ceilDiv(q.Config.MinimumUserLimitPercent*currentCapacity, 100)

	userLimit := limitByUsers
	if limitByMinimum > userLimit {
		userLimit = limitByMinimum
	}

	return tsi.NumSlotsOccupiedByUser[job.User()] >= userLimit
}

// ceilDiv is integer ceil(a/b) using the standard math.Ceil-on-floats idiom;
// a and b are always small (slot counts, percentages), so the float64
// round-trip carries no precision risk.
func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return int(math.Ceil(float64(a) / float64(b)))
}
