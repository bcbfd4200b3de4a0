package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// DefaultFailsafeThreshold is the number of consecutive invariant
// violations a queue tolerates before the failsafe circuit breaker trips
// it, mirroring the teacher's RetryThreshold knob.
const DefaultFailsafeThreshold = 5

// Scheduler is the capacity-share task scheduler. All exported methods that
// touch scheduler state (AssignTasks, JobAdded, JobCompleted, Start,
// Terminate) are mutually exclusive via mu, per §5's single-writer lock
// model; nothing here ever blocks on I/O while mu is held.
type Scheduler struct {
	mu sync.Mutex

	queues     map[string]*structs.Queue
	queueOrder []*structs.Queue // registration order; orderedQueues() re-sorts a copy per call

	jobsByQueue map[string][]structs.Job

	memory             structs.GlobalMemoryConfig
	failsafeThreshold  int
	notifier           FailsafeNotifier

	cluster structs.ClusterStatus
	poller  structs.InitializationPoller

	prevMaxMapTasks    int
	prevMaxReduceTasks int
	capacityPrimed     bool

	metrics metricsSink

	// started is read without mu from status/metrics goroutines; it is
	// monotonic once true, per §5.
	started atomic.Bool
}

// New constructs a Scheduler. It does not validate or load configuration;
// call Start with a parsed structs.SchedulerConfig to do that.
func New() *Scheduler {
	return &Scheduler{
		queues:            make(map[string]*structs.Queue),
		jobsByQueue:       make(map[string][]structs.Job),
		failsafeThreshold: DefaultFailsafeThreshold,
		metrics:           metricsSink{},
	}
}

// SetFailsafeThreshold overrides DefaultFailsafeThreshold; call before Start.
func (s *Scheduler) SetFailsafeThreshold(n int) {
	if n > 0 {
		s.failsafeThreshold = n
	}
}

// SetNotifier installs the notification backend used when a queue's
// failsafe circuit breaker trips. A nil notifier (the default) disables
// paging while leaving the trip/skip behavior intact.
func (s *Scheduler) SetNotifier(n FailsafeNotifier) {
	s.notifier = n
}

// Start validates cfg (§6), constructs the per-queue state, and wires the
// cluster-status collaborator and initialization poller. It must be called
// before AssignTasks/JobAdded/JobCompleted. Configuration-fatal errors
// (§7 kind 1) are returned here and the scheduler never transitions to
// started.
func (s *Scheduler) Start(cfg *structs.SchedulerConfig, cluster structs.ClusterStatus,
	poller structs.InitializationPoller) error {

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("scheduler: configuration invalid, refusing to start: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queues = make(map[string]*structs.Queue, len(cfg.Queues))
	s.queueOrder = make([]*structs.Queue, 0, len(cfg.Queues))
	s.jobsByQueue = make(map[string][]structs.Job, len(cfg.Queues))
	s.memory = cfg.Memory

	for _, qc := range cfg.Queues {
		q := structs.NewQueue(qc)
		s.queues[qc.Name] = q
		s.queueOrder = append(s.queueOrder, q)
	}

	s.cluster = cluster
	s.poller = poller
	if s.poller != nil {
		s.poller.Start()
	}

	s.capacityPrimed = false
	s.started.Store(true)

	logging.Info("scheduler: started with %d queues", len(s.queues))
	return nil
}

// Terminate stops the initialization poller and detaches the cluster
// collaborator. started remains true: per §5 it is a monotonic flag, not a
// running/stopped toggle.
func (s *Scheduler) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poller != nil {
		s.poller.Stop()
	}
	logging.Info("scheduler: terminated")
}

// Started reports whether Start has completed successfully. Safe to call
// without holding mu.
func (s *Scheduler) Started() bool {
	return s.started.Load()
}
