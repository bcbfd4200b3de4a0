package command

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	metrics "github.com/armon/go-metrics"

	"github.com/elsevier-core-engineering/capshare/agent"
	"github.com/elsevier-core-engineering/capshare/client"
	"github.com/elsevier-core-engineering/capshare/cloud/aws"
	"github.com/elsevier-core-engineering/capshare/config"
	"github.com/elsevier-core-engineering/capshare/helper"
	"github.com/elsevier-core-engineering/capshare/logging"
	"github.com/elsevier-core-engineering/capshare/notifier"
	"github.com/elsevier-core-engineering/capshare/scheduler"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
	"github.com/elsevier-core-engineering/capshare/version"
)

// nullPoller is used when no initialization poller is wired in; it
// satisfies structs.InitializationPoller with no behavior.
type nullPoller struct{}

func (nullPoller) Start() {}
func (nullPoller) Stop()  {}

// AgentCommand starts the scheduler as a long-running process, wiring in
// whichever optional collaborators (a tag-driven EC2 worker directory, a
// Consul status publisher, a PagerDuty/OpsGenie failsafe alerter) the
// operator configured.
type AgentCommand struct {
	Meta
	args []string
}

func (c *AgentCommand) Help() string {
	helpText := `
Usage: capshare agent [options]

  Starts the capacity-share task scheduler as a long running process.

  General Options:

    -config=<path>
      Path to a configuration file or directory of configuration files.
      May be specified multiple times... actually once; last wins.

    -log-level=<level>
      Log verbosity: trace, debug, info, warn, or error. Defaults to info.

    -bind=<address:port>
      Address the RPC status/control listener binds to. Defaults to
      127.0.0.1:1314.

    -region=<region>
      AWS region to query for tagged worker instances. When unset, no
      EC2-backed cluster status collaborator is wired in and the agent
      must be driven by a cluster status implementation supplied another
      way.

    -consul=<address:port>
      Consul agent address to publish queue status to. When unset, status
      is only available via the RPC status endpoint.

    -consul-token=<token>
      ACL token used for the Consul status publisher.

    -consul-key-root=<path>
      KV prefix status reports are written under. Defaults to
      capshare/status.

    -pagerduty-service-key=<key>
      When set, a failsafe trip pages this PagerDuty service.

    -cluster-identifier=<name>
      Identifier attached to outgoing failsafe alerts.

    -demo-jobs=<path>
      Path to a JSON fixture of synthetic jobs (see command/demo.go for
      the schema). When set, the agent registers them with the scheduler
      and runs a fabricated three-worker heartbeat loop against a
      demonstration in-memory job tracker, printing a status line per
      queue each round, until every fixture job completes. Intended for
      local evaluation, not production use.

    -demo-interval=<duration>
      Interval between demonstration heartbeat rounds. Defaults to 2s.
`
	return strings.TrimSpace(helpText)
}

func (c *AgentCommand) Synopsis() string {
	return "Runs a capshare scheduler agent"
}

func (c *AgentCommand) Run(args []string) int {
	c.args = args

	var configPath, logLevel, bindAddr, region string
	var consulAddr, consulToken, consulKeyRoot string
	var pagerDutyServiceKey, clusterIdentifier string
	var demoJobsPath string
	var demoInterval time.Duration

	flags := c.Meta.FlagSet("agent", FlagSetClient)
	flags.Usage = func() { c.UI.Error(c.Help()) }
	flags.StringVar(&logLevel, "log-level", "info", "")
	flags.StringVar(&bindAddr, "bind", agent.DefaultRPCAddr.String(), "")
	flags.StringVar(&region, "region", "", "")
	flags.StringVar(&consulAddr, "consul", "", "")
	flags.StringVar(&consulToken, "consul-token", "", "")
	flags.StringVar(&consulKeyRoot, "consul-key-root", "capshare/status", "")
	flags.StringVar(&pagerDutyServiceKey, "pagerduty-service-key", "", "")
	flags.StringVar(&clusterIdentifier, "cluster-identifier", "", "")
	flags.StringVar(&demoJobsPath, "demo-jobs", "", "")
	flags.DurationVar(&demoInterval, "demo-interval", 2*time.Second, "")
	if err := flags.Parse(c.args); err != nil {
		return 1
	}
	configPath = flags.Lookup("config").Value.String()

	logging.SetLevel(logLevel)

	if configPath == "" {
		c.UI.Error("agent: -config is required")
		return 1
	}

	cfg, err := config.LoadPath(configPath)
	if err != nil {
		c.UI.Error(fmt.Sprintf("agent: unable to load configuration: %v", err))
		return 1
	}

	inm := metrics.NewInmemSink(10*time.Second, time.Minute)
	metrics.DefaultInmemSignal(inm)
	metrics.NewGlobal(metrics.DefaultConfig("capshare"), inm)

	var cluster structs.ClusterStatus
	if region != "" {
		dir := aws.NewWorkerDirectory(region)
		if err := dir.Refresh(); err != nil {
			c.UI.Error(fmt.Sprintf("agent: unable to refresh worker directory: %v", err))
			return 1
		}
		cluster = dir
	}

	sched := scheduler.New()

	if pagerDutyServiceKey != "" {
		backend, err := notifier.NewProvider("pagerduty", map[string]string{
			"PagerDutyServiceKey": pagerDutyServiceKey,
		})
		if err != nil {
			c.UI.Error(fmt.Sprintf("agent: unable to configure pagerduty notifier: %v", err))
			return 1
		}
		sched.SetNotifier(&notifier.QueueAlerter{Backend: backend, ClusterIdentifier: clusterIdentifier})
	}

	bind, err := net.ResolveTCPAddr("tcp", bindAddr)
	if err != nil {
		c.UI.Error(fmt.Sprintf("agent: invalid -bind address %q: %v", bindAddr, err))
		return 1
	}

	if err := sched.Start(cfg, cluster, nullPoller{}); err != nil {
		c.UI.Error(fmt.Sprintf("agent: unable to start scheduler: %v", err))
		return 1
	}

	var publisher *client.ConsulStatusPublisher
	if consulAddr != "" {
		publisher, err = client.NewConsulStatusPublisher(consulAddr, consulToken, consulKeyRoot)
		if err != nil {
			c.UI.Error(fmt.Sprintf("agent: unable to configure consul status publisher: %v", err))
			return 1
		}
	}

	srv, err := agent.NewServer(sched, bind)
	if err != nil {
		c.UI.Error(fmt.Sprintf("agent: unable to start RPC listener: %v", err))
		return 1
	}

	stopDemo := make(chan struct{})
	if demoJobsPath != "" {
		demoJobs, err := loadDemoJobs(demoJobsPath)
		if err != nil {
			c.UI.Error(fmt.Sprintf("agent: unable to load demo jobs: %v", err))
			return 1
		}
		go runDemoLoop(sched, demoJobs, demoInterval, stopDemo)
	}

	stopPublish := make(chan struct{})
	if publisher != nil {
		go publishStatus(sched, publisher, stopPublish)
	}

	logging.Info("command/agent: running version %v", version.Get())
	logging.Info("command/agent: scheduler listening on %s", bind.String())

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	for s := range signalCh {
		switch s {
		case syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
			logging.Info("command/agent: caught signal %v, shutting down", s)
			close(stopPublish)
			close(stopDemo)
			srv.Shutdown()
			return 0
		case syscall.SIGHUP:
			logging.Info("command/agent: caught signal %v, checking for configuration changes", s)
			next, err := config.LoadPath(configPath)
			if err != nil {
				logging.Error("command/agent: unable to reload configuration from %s: %v", configPath, err)
				continue
			}
			changed, err := helper.HasConfigChanged(cfg, next)
			if err != nil {
				logging.Error("command/agent: unable to compare configurations: %v", err)
				continue
			}
			if !changed {
				logging.Info("command/agent: configuration unchanged, nothing to do")
				continue
			}
			logging.Warning("command/agent: configuration at %s has changed; restart the agent to apply it, hot reload is not yet supported", configPath)
			cfg = next
		}
	}

	return 0
}

// publishStatus pushes a fresh Report() to the Consul status publisher on a
// fixed interval until stopCh is closed.
func publishStatus(sched *scheduler.Scheduler, publisher *client.ConsulStatusPublisher, stopCh <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			report := sched.Report()
			for _, q := range report.Queues {
				publisher.SetSchedulerInfo(q.Name, q)
			}
		}
	}
}
