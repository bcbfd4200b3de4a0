// Package aws provides an optional, tag-driven implementation of
// structs.ClusterStatus: it discovers running task-tracker instances by
// an EC2 tag instead of requiring a separate cluster manager integration.
package aws

import (
	"fmt"
	"strconv"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"

	"github.com/elsevier-core-engineering/capshare/helper"
	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// WorkerTagKey is the EC2 tag an instance must carry, set to the number of
// map and reduce slots it hosts as "<mapSlots>:<reduceSlots>", for the
// worker directory to include it in cluster totals.
const WorkerTagKey = "capshare:slots"

// WorkerDirectory is a reference structs.ClusterStatus implementation
// backed by EC2 instance tags, for operators who run task trackers as a
// tagged fleet of instances rather than wiring in their own cluster
// manager.
type WorkerDirectory struct {
	region string
	workers map[string]structs.Worker
}

// NewWorkerDirectory constructs a directory scoped to region. Call Refresh
// before first use and on whatever interval the deployment considers its
// fleet membership to change.
func NewWorkerDirectory(region string) *WorkerDirectory {
	return &WorkerDirectory{region: region, workers: make(map[string]structs.Worker)}
}

// Refresh re-queries EC2 for running instances carrying WorkerTagKey and
// rebuilds the worker set from scratch.
func (d *WorkerDirectory) Refresh() error {
	defer metrics.MeasureSince([]string{"cloud", "aws", "worker_directory", "refresh"}, time.Now())

	sess, err := session.NewSession()
	if err != nil {
		return err
	}
	svc := ec2.New(sess, &aws.Config{Region: aws.String(d.region)})

	resp, err := svc.DescribeInstances(&ec2.DescribeInstancesInput{
		Filters: []*ec2.Filter{
			{Name: aws.String("tag-key"), Values: []*string{aws.String(WorkerTagKey)}},
			{Name: aws.String("instance-state-name"), Values: []*string{aws.String("running")}},
		},
	})
	if err != nil {
		return fmt.Errorf("cloud/aws: unable to describe worker instances: %v", err)
	}

	workers := make(map[string]structs.Worker)

	for _, reservation := range resp.Reservations {
		for _, inst := range reservation.Instances {
			mapSlots, reduceSlots, ok := slotsFromTags(inst.Tags)
			if !ok {
				continue
			}
			if inst.PrivateIpAddress == nil || inst.InstanceId == nil {
				continue
			}

			// EC2's PrivateIpAddress is normally a bare address, but operators
			// sometimes store "ip:port" in the tag value propagated from other
			// tooling; FindIP strips anything but the dotted-quad.
			host := helper.FindIP(*inst.PrivateIpAddress)
			if host == "" {
				host = *inst.PrivateIpAddress
			}

			workers[*inst.InstanceId] = newTaggedWorker(*inst.InstanceId, host, mapSlots, reduceSlots)
		}
	}

	d.workers = workers
	logging.Debug("cloud/aws: worker directory refreshed, %d workers discovered", len(workers))
	return nil
}

func slotsFromTags(tags []*ec2.Tag) (mapSlots, reduceSlots int, ok bool) {
	for _, t := range tags {
		if t.Key == nil || *t.Key != WorkerTagKey || t.Value == nil {
			continue
		}
		var m, r int
		if _, err := fmt.Sscanf(*t.Value, "%d:%d", &m, &r); err != nil {
			return 0, 0, false
		}
		return m, r, true
	}
	return 0, 0, false
}

// MaxMapTasks implements structs.ClusterStatus.
func (d *WorkerDirectory) MaxMapTasks() int {
	total := 0
	for _, w := range d.workers {
		total += w.MaxSlots(structs.KindMap)
	}
	return total
}

// MaxReduceTasks implements structs.ClusterStatus.
func (d *WorkerDirectory) MaxReduceTasks() int {
	total := 0
	for _, w := range d.workers {
		total += w.MaxSlots(structs.KindReduce)
	}
	return total
}

// TaskTrackers implements structs.ClusterStatus.
func (d *WorkerDirectory) TaskTrackers() []structs.Worker {
	out := make([]structs.Worker, 0, len(d.workers))
	for _, w := range d.workers {
		out = append(out, w)
	}
	return out
}

// NumberOfUniqueHosts implements structs.ClusterStatus.
func (d *WorkerDirectory) NumberOfUniqueHosts() int {
	return len(d.workers)
}

// formatSlotsTag is a small helper operators can use when tagging
// instances from provisioning tooling.
func formatSlotsTag(mapSlots, reduceSlots int) string {
	return strconv.Itoa(mapSlots) + ":" + strconv.Itoa(reduceSlots)
}
