package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benoitkugler/svgpng/config"
	"github.com/benoitkugler/svgpng/logger"
	"github.com/google/subcommands"
)

var envFile = flag.String("env", config.EnvFile, "/path/to/.env : optional file of SVGPNG_* variables")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	e := &env{}
	subcommands.Register(&convertCmd{env: e}, "")
	subcommands.Register(&infoCmd{env: e}, "")
	subcommands.Register(&editCmd{env: e}, "")
	subcommands.Register(&historyCmd{env: e}, "")

	flag.Parse()

	if err := e.load(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "[svgpng] Error:", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	if err := logger.SetLevel(e.cfg.LogLevel); err != nil {
		logger.Logger.Warn("Invalid log level", "level", e.cfg.LogLevel, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
