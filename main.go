package main

import (
	"os"

	"github.com/elsevier-core-engineering/capshare/version"
	"github.com/mitchellh/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	c := cli.NewCLI("capshare", version.Get())
	c.Args = args
	c.Commands = Commands(nil)

	exitCode, err := c.Run()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	return exitCode
}
