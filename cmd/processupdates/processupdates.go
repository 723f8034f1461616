package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
	"github.com/wallnutkraken/gophotopoll/server"
)

// processupdates resolves the expired deletion polls, then acts on the commands sent since the
// last run. Bot API failures are logged and do not change the exit code

var (
	configPath = flag.String("config", "", "The state file path, overrides "+settings.EnvConfig)
	every      = flag.Duration("every", 0, "Run again on this interval until interrupted, 0 runs once")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	env, err := settings.LoadEnvironment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return 1
	}
	if *configPath != "" {
		env.ConfigPath = *configPath
	}
	logs, closeLog, err := server.OpenLogger(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return 1
	}
	defer closeLog()
	log := logs.NewChild("main")

	serv, closeJournal, err := server.FromEnvironment(env, logs)
	if err != nil {
		var unreachable *server.UnreachableError
		if errors.As(err, &unreachable) {
			log.WithError(err).Error("nothing processed")
			return 0
		}
		log.WithError(err).Error("could not start")
		return 1
	}
	defer closeJournal()

	if *every <= 0 {
		if _, err := serv.ProcessOnce(); err != nil {
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log.WithField("every", every.String()).Info("running in loop mode")
	if err := serv.Start(ctx, *every); err != nil {
		return 1
	}
	return 0
}
