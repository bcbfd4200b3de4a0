package command

import (
	"testing"
	"time"

	"github.com/elsevier-core-engineering/capshare/scheduler"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

func TestLoadDemoJobs_ParsesFixture(t *testing.T) {
	jobs, err := loadDemoJobs("testdata/demo-jobs.json")
	if err != nil {
		t.Fatalf("unexpected error loading fixture: %s", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID() != "wordcount-1" || jobs[0].Queue() != "default" {
		t.Fatalf("unexpected first job: %+v", jobs[0].spec)
	}
	if jobs[0].PendingTasks(structs.KindMap) != 6 {
		t.Fatalf("expected 6 pending map tasks, got %d", jobs[0].PendingTasks(structs.KindMap))
	}
}

func TestLoadDemoJobs_MissingFileErrors(t *testing.T) {
	if _, err := loadDemoJobs("testdata/does-not-exist.json"); err == nil {
		t.Fatalf("expected an error for a missing fixture file")
	}
}

func TestDemoJob_ObtainMapTaskDecrementsPendingIncrementsRunning(t *testing.T) {
	j := &demoJob{spec: demoJobSpec{ID: "j1", MapSlotsPerTask: 1}, pendingMap: 2}

	task, ok := j.ObtainNewLocalMapTask(nil, 4)
	if !ok {
		t.Fatalf("expected a task to be obtained")
	}
	if task.Kind != structs.KindMap {
		t.Fatalf("expected a map task")
	}
	if j.pendingMap != 1 || j.runningMap != 1 {
		t.Fatalf("expected pendingMap=1 runningMap=1, got pendingMap=%d runningMap=%d", j.pendingMap, j.runningMap)
	}

	if _, ok := j.ObtainNewLocalMapTask(nil, 0); ok {
		t.Fatalf("expected no task when availableSlots is below the task's cost")
	}
}

func TestDemoJob_FinishRoundReportsCompletion(t *testing.T) {
	j := &demoJob{spec: demoJobSpec{ID: "j1"}, pendingMap: 0, pendingReduce: 0, runningMap: 2}

	if j.finishRound() != true {
		t.Fatalf("expected finishRound to report completion once pending and running are both zero")
	}
	if j.runningMap != 0 {
		t.Fatalf("expected finishRound to clear running counts")
	}

	j.pendingReduce = 1
	if j.finishRound() {
		t.Fatalf("expected finishRound to report incomplete while reduce work is still pending")
	}
}

func TestDemoCluster_CapacityTotals(t *testing.T) {
	c := newDemoCluster()

	if got := c.MaxMapTasks(); got != 12 {
		t.Fatalf("expected 12 total map slots across 3 fabricated workers, got %d", got)
	}
	if got := c.NumberOfUniqueHosts(); got != 3 {
		t.Fatalf("expected 3 unique hosts, got %d", got)
	}
}

func TestRunDemoLoop_CompletesAllJobsAndStops(t *testing.T) {
	sched := scheduler.New()
	cfg := &structs.SchedulerConfig{
		Queues: []*structs.QueueConfig{
			{Name: "default", CapacityPercent: pctStatus(100)},
		},
	}
	if err := sched.Start(cfg, nil, nil); err != nil {
		t.Fatalf("unexpected error starting scheduler: %s", err)
	}

	jobs, err := loadDemoJobs("testdata/demo-jobs.json")
	if err != nil {
		t.Fatalf("unexpected error loading fixture: %s", err)
	}
	// Only the "default" queue exists in this scheduler; drop the batch job
	// so runDemoLoop doesn't error trying to register it against a queue
	// that was never configured.
	jobs = jobs[:1]

	stopCh := make(chan struct{})
	done := make(chan struct{})
	go func() {
		runDemoLoop(sched, jobs, 10*time.Millisecond, stopCh)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		close(stopCh)
		t.Fatalf("expected runDemoLoop to finish once all jobs complete")
	}
}
