package command

import (
	"fmt"
	"net"
	"net/rpc"
	"strings"

	"github.com/elsevier-core-engineering/capshare/agent"
)

// FailsafeCommand is a command implementation that allows operators to
// administratively reset a queue's tripped failsafe circuit breaker.
type FailsafeCommand struct {
	Meta
	args []string
}

// Help provides the help information for the failsafe command.
func (c *FailsafeCommand) Help() string {
	helpText := `
Usage: capshare failsafe [options] <queue>

  Resets the failsafe circuit breaker for the named queue, allowing the
  scheduler to resume scheduling tasks against it. Failsafe mode trips
  after repeated internal invariant violations and is intended to
  stabilize a queue that is misbehaving; an operator should identify the
  root cause before resetting it.

  General Options:

    -rpc-addr=<address:port>
      Address of the running agent's RPC listener. Defaults to
      127.0.0.1:1314.

    -force
      Suppress the confirmation prompt.
`
	return strings.TrimSpace(helpText)
}

// Synopsis is provides a brief summary of the failsafe command.
func (c *FailsafeCommand) Synopsis() string {
	return "Reset a queue's failsafe circuit breaker"
}

// Run triggers the failsafe reset against a running agent over RPC.
func (c *FailsafeCommand) Run(args []string) int {
	c.args = args

	var rpcAddr string
	var force bool

	flags := c.Meta.FlagSet("failsafe", FlagSetClient)
	flags.Usage = func() { c.UI.Error(c.Help()) }
	flags.StringVar(&rpcAddr, "rpc-addr", agent.DefaultRPCAddr.String(), "")
	flags.BoolVar(&force, "force", false, "")
	if err := flags.Parse(c.args); err != nil {
		return 1
	}

	remaining := flags.Args()
	if len(remaining) != 1 {
		c.UI.Error(c.Help())
		return 1
	}
	queue := remaining[0]

	if !force {
		answer, err := c.UI.Ask(fmt.Sprintf(
			"Reset the failsafe circuit breaker for queue %q? [y/N]: ", queue))
		if err != nil {
			c.UI.Error(fmt.Sprintf("Failed to parse answer: %v", err))
			return 1
		}
		if answer == "" || strings.ToLower(answer)[0] != 'y' {
			c.UI.Output("Cancelling, no action taken.")
			return 0
		}
	}

	conn, err := net.Dial("tcp", rpcAddr)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Failed to connect to agent at %s: %v", rpcAddr, err))
		return 1
	}
	defer conn.Close()

	client := rpc.NewClient(conn)
	defer client.Close()

	var reply struct{}
	if err := client.Call("Status.ResetFailsafe", queue, &reply); err != nil {
		c.UI.Error(fmt.Sprintf("Failed to reset failsafe for queue %q: %v", queue, err))
		return 1
	}

	c.UI.Info(fmt.Sprintf("Failsafe circuit breaker reset for queue %q", queue))
	return 0
}
