package command

import (
	"fmt"
	"net"
	"net/rpc"
	"strings"

	"github.com/elsevier-core-engineering/capshare/agent"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

// StatusCommand queries a running agent for its current queue state.
type StatusCommand struct {
	Meta
	args []string
}

func (c *StatusCommand) Help() string {
	helpText := `
Usage: capshare status [options]

  Queries a running agent for a snapshot of every queue's current fill
  ratio, occupied slots, and failsafe state.

  General Options:

    -rpc-addr=<address:port>
      Address of the running agent's RPC listener. Defaults to
      127.0.0.1:1314.
`
	return strings.TrimSpace(helpText)
}

func (c *StatusCommand) Synopsis() string {
	return "Display the current state of every queue"
}

func (c *StatusCommand) Run(args []string) int {
	c.args = args

	var rpcAddr string
	flags := c.Meta.FlagSet("status", FlagSetClient)
	flags.Usage = func() { c.UI.Error(c.Help()) }
	flags.StringVar(&rpcAddr, "rpc-addr", agent.DefaultRPCAddr.String(), "")
	if err := flags.Parse(c.args); err != nil {
		return 1
	}

	conn, err := net.Dial("tcp", rpcAddr)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Failed to connect to agent at %s: %v", rpcAddr, err))
		return 1
	}
	defer conn.Close()

	client := rpc.NewClient(conn)
	defer client.Close()

	var report structs.StatusReport
	if err := client.Call("Status.Queues", struct{}{}, &report); err != nil {
		c.UI.Error(fmt.Sprintf("Failed to query status: %v", err))
		return 1
	}

	for _, q := range report.Queues {
		tripped := ""
		if q.FailsafeTripped {
			tripped = " [FAILSAFE TRIPPED]"
		}
		c.UI.Output(fmt.Sprintf("%s%s", q.Name, tripped))
		c.UI.Output(fmt.Sprintf("  map:    %d/%d slots occupied, %d running tasks",
			q.Map.OccupiedSlots, q.Map.CapacitySlots, q.Map.RunningTasks))
		c.UI.Output(fmt.Sprintf("  reduce: %d/%d slots occupied, %d running tasks",
			q.Reduce.OccupiedSlots, q.Reduce.CapacitySlots, q.Reduce.RunningTasks))
		c.UI.Output(fmt.Sprintf("  waiting jobs: %d, distinct users: %d",
			q.WaitingJobs, q.DistinctUsers))
	}

	return 0
}
