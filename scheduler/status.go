package scheduler

import "github.com/elsevier-core-engineering/capshare/scheduler/structs"

// Report builds a point-in-time snapshot of every queue's state for the
// Status Reporter (SPEC_FULL §4.L) and any QueueManager.SetSchedulerInfo
// publisher. It takes mu, so it reflects exactly what the next heartbeat
// would see, never a torn read across queues.
func (s *Scheduler) Report() *structs.StatusReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &structs.StatusReport{}

	for _, q := range s.queueOrder {
		var capacityPercent float64
		if q.Config.CapacityPercent != nil {
			capacityPercent = *q.Config.CapacityPercent
		}

		qr := &structs.QueueReport{
			Name:               q.Config.Name,
			CapacityPercent:    capacityPercent,
			MaxCapacityPercent: q.Config.MaxCapacityPercent,
			Map:                kindReportFor(&q.Map),
			Reduce:          kindReportFor(&q.Reduce),
			ActiveUsers:     copyUserCounts(q.NumJobsByUser),
			WaitingJobs:     countWaiting(s.jobsByQueue[q.Config.Name]),
			DistinctUsers:   q.ActiveUsers(),
			FailsafeTripped: q.Failsafe.Tripped,
		}
		report.Queues = append(report.Queues, qr)
	}

	return report
}

func kindReportFor(tsi *structs.TSI) structs.KindReport {
	return structs.KindReport{
		CapacitySlots:    tsi.CapacitySlots,
		MaxCapacitySlots: tsi.MaxCapacitySlots,
		OccupiedSlots:    tsi.NumSlotsOccupied,
		RunningTasks:     tsi.NumRunningTasks,
	}
}

func copyUserCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func countWaiting(jobs []structs.Job) int {
	n := 0
	for _, j := range jobs {
		if j.RunState() == structs.JobWaiting {
			n++
		}
	}
	return n
}
