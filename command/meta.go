// Package command implements the capshare CLI subcommands, built on
// mitchellh/cli the same way the teacher assembles its own command set.
package command

import (
	"flag"

	"github.com/mitchellh/cli"
)

// FlagSetFlags is a bitmask controlling which common flags Meta.FlagSet
// adds to a subcommand's flag.FlagSet.
type FlagSetFlags uint

const (
	FlagSetNone   FlagSetFlags = 0
	FlagSetClient FlagSetFlags = 1 << iota
)

// Meta holds the fields shared across every CLI subcommand.
type Meta struct {
	UI cli.Ui
}

// FlagSet returns a flag.FlagSet preconfigured with whatever common flags
// flags requests; usage errors are reported through the command's own UI
// rather than flag's default stderr writer.
func (m *Meta) FlagSet(name string, flags FlagSetFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	if flags&FlagSetClient != 0 {
		fs.String("config", "", "path to a config file or directory of config files")
	}

	fs.Usage = func() {}

	return fs
}
