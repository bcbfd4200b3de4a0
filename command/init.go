package command

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
)

// DefaultInitName is the default name used when initializing the example
// configuration file.
const DefaultInitName = "capshare.hcl"

// InitCommand writes an example queue configuration document.
type InitCommand struct {
	Meta
}

// Help provides the help information for the init command.
func (c *InitCommand) Help() string {
	helpText := `
Usage: capshare init

  Creates an example queue configuration document that can be used as a
  starting point to customize further.
`
	return strings.TrimSpace(helpText)
}

// Synopsis is provides a brief summary of the init command.
func (c *InitCommand) Synopsis() string {
	return "Create an example capshare queue configuration document"
}

// Run triggers the init command to write the example config file out to
// the current directory.
func (c *InitCommand) Run(args []string) int {
	if len(args) != 0 {
		c.UI.Error(c.Help())
		return 1
	}

	_, err := os.Stat(DefaultInitName)
	if err != nil && !os.IsNotExist(err) {
		c.UI.Error(fmt.Sprintf("Failed to stat '%s': %v", DefaultInitName, err))
		return 1
	}
	if !os.IsNotExist(err) {
		c.UI.Error(fmt.Sprintf("Configuration document '%s' already exists", DefaultInitName))
		return 1
	}

	err = ioutil.WriteFile(DefaultInitName, []byte(defaultQueueDocument), 0660)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Failed to write '%s': %v", DefaultInitName, err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Example queue configuration file written to %s", DefaultInitName))
	return 0
}

var defaultQueueDocument = strings.TrimSpace(`
queue "default" {
  capacity                   = 60
  maximum-capacity           = 80
  minimum-user-limit-percent = 25
  supports-priority          = false
}

queue "batch" {
  capacity = 40
}

mapred {
  cluster-map-memory-mb        = 1024
  cluster-reduce-memory-mb     = 1024
  cluster-max-map-memory-mb    = 8192
  cluster-max-reduce-memory-mb = 8192
}
`)
