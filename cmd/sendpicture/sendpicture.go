package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
	"github.com/wallnutkraken/gophotopoll/server"
)

// sendpicture posts one random photo from the watched folders to the chat

var configPath = flag.String("config", "", "The state file path, overrides "+settings.EnvConfig)

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
			log.WithError(err).Error("no photo posted")
			return 0
		}
		log.WithError(err).Error("could not start")
		return 1
	}
	defer closeJournal()

	if _, err := serv.SendOutPhoto(); err != nil {
		return 1
	}
	return 0
}
