package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&serveCmd{}, "server")
	commander.Register(&compareCmd{}, "query")
	commander.Register(&historyCmd{}, "query")
	commander.Register(&resolveCmd{}, "query")
	commander.Register(&aboutCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
