package server

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/wallnutkraken/gophotopoll/bot"
	"github.com/wallnutkraken/gophotopoll/memlog"
	"github.com/wallnutkraken/gophotopoll/pollbrain/dbwrap"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
	"github.com/wallnutkraken/gophotopoll/telegram"
)

// UnreachableError is returned by FromEnvironment when the Bot API could not be reached. Like
// any other Bot API failure it is not fatal to the process
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return "Bot API unreachable: " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// OpenLogger creates the process logger, writing to the configured log file or stderr.
// The returned func closes the log file
func OpenLogger(env settings.Environment) (*memlog.Logger, func(), error) {
	if env.LogFile == "" {
		return memlog.New(os.Stderr, env.LogLevel), func() {}, nil
	}
	file, err := os.OpenFile(env.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "os.OpenFile")
	}
	return memlog.New(io.MultiWriter(file, os.Stderr), env.LogLevel), func() { file.Close() }, nil
}

// FromEnvironment builds a Server from the environment: the state file gives the token and the
// chat, the journal is opened when a dialect is configured. A state file that cannot be loaded
// is returned as a *settings.ConfigError. The returned func closes the journal
func FromEnvironment(env settings.Environment, logs *memlog.Logger) (*Server, func(), error) {
	state, err := settings.Load(env.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	var journal bot.Journal
	closer := func() {}
	var wrapper dbwrap.Wrapper
	if env.JournalDialect != "" {
		wrapper, err = dbwrap.Open(env.JournalDialect, env.JournalDSN)
		if err != nil {
			return nil, nil, errors.WithMessage(err, "journal")
		}
		journal = wrapper
		closer = func() { wrapper.Close() }
	}

	client, err := telegram.New(state.Token, state.ChatID, env.Timeout, logs.NewChild("telegram"))
	if err != nil {
		closer()
		return nil, nil, &UnreachableError{Err: err}
	}
	if journal != nil {
		client.SetErrorLog(wrapper)
	}
	return New(env.ConfigPath, client, journal, logs), closer, nil
}
