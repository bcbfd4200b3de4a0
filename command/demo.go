package command

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// demoJobSpec is the on-disk JSON shape of a single fixture job for the
// agent's -demo-jobs fixture loop; field names intentionally mirror
// structs.QueueConfig/structs.Job's vocabulary rather than Go convention,
// since this file is read and hand-edited by operators trying the tool out.
type demoJobSpec struct {
	ID                 string `json:"id"`
	Queue              string `json:"queue"`
	User               string `json:"user"`
	Priority           int    `json:"priority"`
	MapSlotsPerTask    int    `json:"map_slots_per_task"`
	ReduceSlotsPerTask int    `json:"reduce_slots_per_task"`
	MemoryMB           int    `json:"memory_mb"`
	VirtualMemoryMB    int    `json:"virtual_memory_mb"`
	PendingMapTasks    int    `json:"pending_map_tasks"`
	PendingReduceTasks int    `json:"pending_reduce_tasks"`
}

// loadDemoJobs reads a JSON array of demoJobSpec from path and constructs
// the equivalent demoJob set.
func loadDemoJobs(path string) ([]*demoJob, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read demo jobs fixture: %w", err)
	}

	var specs []demoJobSpec
	if err := json.Unmarshal(body, &specs); err != nil {
		return nil, fmt.Errorf("unable to parse demo jobs fixture: %w", err)
	}

	jobs := make([]*demoJob, 0, len(specs))
	for _, s := range specs {
		jobs = append(jobs, &demoJob{spec: s, pendingMap: s.PendingMapTasks, pendingReduce: s.PendingReduceTasks})
	}
	return jobs, nil
}

// demoJob is a minimal, single-goroutine structs.Job used only by the
// agent's demonstration loop: it has no real task-tracker counterpart,
// every "task" obtained against it is considered finished by the start of
// the following round.
type demoJob struct {
	spec demoJobSpec

	pendingMap, pendingReduce int
	runningMap, runningReduce int
}

func (j *demoJob) ID() string         { return j.spec.ID }
func (j *demoJob) Queue() string      { return j.spec.Queue }
func (j *demoJob) User() string       { return j.spec.User }
func (j *demoJob) Priority() int      { return j.spec.Priority }
func (j *demoJob) RunState() structs.RunState { return structs.JobRunning }

func (j *demoJob) SlotsPerTask(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return j.spec.MapSlotsPerTask
	}
	return j.spec.ReduceSlotsPerTask
}

func (j *demoJob) MemoryMB(structs.TaskKind) int        { return j.spec.MemoryMB }
func (j *demoJob) VirtualMemoryMB(structs.TaskKind) int { return j.spec.VirtualMemoryMB }

func (j *demoJob) PendingTasks(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return j.pendingMap
	}
	return j.pendingReduce
}

func (j *demoJob) RunningTasks(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return j.runningMap
	}
	return j.runningReduce
}

func (j *demoJob) ReservedTrackers(structs.TaskKind) int                       { return 0 }
func (j *demoJob) HasSpeculativeTask(structs.TaskKind, structs.Worker) bool    { return false }
func (j *demoJob) ScheduleOffSwitch(numUniqueHosts int) bool                   { return numUniqueHosts > 0 }
func (j *demoJob) MarkLocalityIgnored()                                       {}

func (j *demoJob) ObtainNewLocalMapTask(worker structs.Worker, availableSlots int) (*structs.Task, bool) {
	return j.obtainMap(availableSlots, false)
}

func (j *demoJob) ObtainNewNonLocalMapTask(worker structs.Worker, availableSlots int) (*structs.Task, bool) {
	return j.obtainMap(availableSlots, true)
}

func (j *demoJob) obtainMap(availableSlots int, offSwitch bool) (*structs.Task, bool) {
	if j.pendingMap <= 0 || j.spec.MapSlotsPerTask > availableSlots {
		return nil, false
	}
	j.pendingMap--
	j.runningMap++
	return &structs.Task{ID: fmt.Sprintf("%s-map-%d", j.spec.ID, j.runningMap), JobID: j.spec.ID,
		Kind: structs.KindMap, SlotsRequired: j.spec.MapSlotsPerTask, OffSwitch: offSwitch}, true
}

func (j *demoJob) ObtainNewReduceTask(worker structs.Worker, availableSlots int) (*structs.Task, bool) {
	if j.pendingReduce <= 0 || j.spec.ReduceSlotsPerTask > availableSlots {
		return nil, false
	}
	j.pendingReduce--
	j.runningReduce++
	return &structs.Task{ID: fmt.Sprintf("%s-reduce-%d", j.spec.ID, j.runningReduce), JobID: j.spec.ID,
		Kind: structs.KindReduce, SlotsRequired: j.spec.ReduceSlotsPerTask}, true
}

// finishRound clears every task the job had running, simulating
// instantaneous completion between heartbeats. Returns true once the job
// has no more pending or running work.
func (j *demoJob) finishRound() bool {
	j.runningMap = 0
	j.runningReduce = 0
	return j.pendingMap == 0 && j.pendingReduce == 0
}

// demoWorker is a fabricated structs.Worker; the demo loop creates a fixed
// pool of these to stand in for real task-tracker heartbeats.
type demoWorker struct {
	name, host         string
	maxMap, maxReduce  int
	reservations       [2]*structs.Reservation
}

func newDemoWorker(name, host string, maxMap, maxReduce int) *demoWorker {
	return &demoWorker{name: name, host: host, maxMap: maxMap, maxReduce: maxReduce}
}

func (w *demoWorker) Name() string { return w.name }
func (w *demoWorker) Host() string { return w.host }

func (w *demoWorker) MaxSlots(kind structs.TaskKind) int {
	if kind == structs.KindMap {
		return w.maxMap
	}
	return w.maxReduce
}

// OccupiedSlots is always reported as zero: the demo loop treats every
// round's assigned tasks as finished before the next round begins, so
// every worker always reports in fully idle.
func (w *demoWorker) OccupiedSlots(structs.TaskKind) int { return 0 }

func (w *demoWorker) FreeMemoryMB() int        { return 1 << 30 }
func (w *demoWorker) FreeVirtualMemoryMB() int { return 1 << 30 }

func (w *demoWorker) Reservation(kind structs.TaskKind) (structs.Reservation, bool) {
	r := w.reservations[kind]
	if r == nil {
		return structs.Reservation{}, false
	}
	return *r, true
}

func (w *demoWorker) Reserve(kind structs.TaskKind, job structs.Job, slots int) {
	w.reservations[kind] = &structs.Reservation{Job: job, SlotsReserved: slots}
}

func (w *demoWorker) Unreserve(kind structs.TaskKind) {
	w.reservations[kind] = nil
}

// demoCluster is a fixed-size structs.ClusterStatus backing the demo
// loop's fabricated worker pool.
type demoCluster struct {
	workers []structs.Worker
}

func (c *demoCluster) MaxMapTasks() int {
	total := 0
	for _, w := range c.workers {
		total += w.MaxSlots(structs.KindMap)
	}
	return total
}

func (c *demoCluster) MaxReduceTasks() int {
	total := 0
	for _, w := range c.workers {
		total += w.MaxSlots(structs.KindReduce)
	}
	return total
}

func (c *demoCluster) TaskTrackers() []structs.Worker { return c.workers }
func (c *demoCluster) NumberOfUniqueHosts() int       { return len(c.workers) }

// newDemoCluster fabricates a small, fixed worker pool: enough to exercise
// the multi-worker locality gate without requiring an operator to stand up
// real infrastructure just to see the scheduler run.
func newDemoCluster() *demoCluster {
	return &demoCluster{workers: []structs.Worker{
		newDemoWorker("demo-worker-1", "10.0.0.1", 4, 2),
		newDemoWorker("demo-worker-2", "10.0.0.2", 4, 2),
		newDemoWorker("demo-worker-3", "10.0.0.3", 4, 2),
	}}
}

// runDemoLoop registers jobs with sched and then, once per interval, feeds
// a heartbeat from every fabricated worker and prints the resulting status
// report, until every job has completed or stopCh is closed.
func runDemoLoop(sched *scheduler.Scheduler, jobs []*demoJob, interval time.Duration, stopCh <-chan struct{}) {
	cluster := newDemoCluster()

	live := make([]*demoJob, 0, len(jobs))
	for _, j := range jobs {
		if err := sched.JobAdded(j); err != nil {
			logging.Error("command/demo: unable to register job %s: %v", j.ID(), err)
			continue
		}
		live = append(live, j)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if len(live) == 0 {
				logging.Info("command/demo: all demonstration jobs have completed")
				return
			}

			for _, w := range cluster.workers {
				sched.AssignTasks(w)
			}

			printDemoReport(sched.Report())

			remaining := live[:0]
			for _, j := range live {
				if j.finishRound() {
					sched.JobCompleted(j)
					logging.Info("command/demo: job %s completed", j.ID())
					continue
				}
				remaining = append(remaining, j)
			}
			live = remaining
		}
	}
}

func printDemoReport(report *structs.StatusReport) {
	for _, q := range report.Queues {
		fmt.Printf("queue %s: map %d/%d occupied, reduce %d/%d occupied, waiting %d, users %d\n",
			q.Name, q.Map.OccupiedSlots, q.Map.CapacitySlots, q.Reduce.OccupiedSlots, q.Reduce.CapacitySlots,
			q.WaitingJobs, q.DistinctUsers)
	}
}
