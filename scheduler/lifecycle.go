package scheduler

import (
	"fmt"

	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// JobAdded registers job with its queue's job list (§4.I). It does not
// touch any TSI: the next heartbeat's rebuildTSIs picks up the new job's
// usage once it starts reporting running tasks, consistent with the
// scheduler never trusting incremental accounting across a heartbeat
// boundary.
func (s *Scheduler) JobAdded(job structs.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[job.Queue()]
	if !ok {
		return fmt.Errorf("scheduler: job %q submitted to unknown queue %q", job.ID(), job.Queue())
	}

	s.jobsByQueue[q.Config.Name] = append(s.jobsByQueue[q.Config.Name], job)
	logging.Debug("scheduler: job %q added to queue %q for user %q", job.ID(), q.Config.Name, job.User())
	return nil
}

// JobCompleted removes job from its queue's job list and releases any
// worker reservation it may still be holding is the caller's
// responsibility (the Worker interface has no enumerate-jobs method, so
// the scheduler cannot walk every worker to find one); callers that track
// workers directly should call Worker.Unreserve for both kinds before
// calling JobCompleted.
func (s *Scheduler) JobCompleted(job structs.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := s.jobsByQueue[job.Queue()]
	for i, j := range jobs {
		if j.ID() == job.ID() {
			s.jobsByQueue[job.Queue()] = append(jobs[:i], jobs[i+1:]...)
			break
		}
	}

	logging.Debug("scheduler: job %q completed, removed from queue %q", job.ID(), job.Queue())
}
