// Package client holds thin wrappers around external collaborator APIs:
// today, an optional Consul-backed status publisher.
package client

import (
	"encoding/json"
	"fmt"
	"time"

	metrics "github.com/armon/go-metrics"
	consul "github.com/hashicorp/consul/api"

	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// ConsulStatusPublisher implements structs.QueueManager.SetSchedulerInfo by
// writing each queue's status report as JSON to a Consul KV path, for
// operators who want scheduler state visible to other Consul-aware
// tooling rather than only through the RPC status endpoint.
type ConsulStatusPublisher struct {
	consul  *consul.Client
	token   string
	keyRoot string
}

// NewConsulStatusPublisher constructs a publisher against the Consul agent
// at addr, writing reports under keyRoot/<queue-name>.
func NewConsulStatusPublisher(addr, token, keyRoot string) (*ConsulStatusPublisher, error) {
	config := consul.DefaultConfig()
	config.Address = addr

	c, err := consul.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &ConsulStatusPublisher{consul: c, token: token, keyRoot: keyRoot}, nil
}

// SetSchedulerInfo implements structs.QueueManager. It is safe to call
// from the per-heartbeat rebuild path: a publish failure is logged, never
// returned, so a Consul outage cannot stall scheduling.
func (p *ConsulStatusPublisher) SetSchedulerInfo(queueName string, report *structs.QueueReport) {
	defer metrics.MeasureSince([]string{"client", "consul", "publish"}, time.Now())

	body, err := json.Marshal(report)
	if err != nil {
		logging.Error("client/consul: unable to marshal status report for queue %q: %v", queueName, err)
		return
	}

	opts := &consul.WriteOptions{}
	if p.token != "" {
		opts.Token = p.token
	}

	pair := &consul.KVPair{
		Key:   fmt.Sprintf("%s/%s", p.keyRoot, queueName),
		Value: body,
	}

	if _, err := p.consul.KV().Put(pair, opts); err != nil {
		logging.Error("client/consul: unable to publish status for queue %q: %v", queueName, err)
	}
}
