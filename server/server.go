// Package server runs the photo bot invocations: processing updates and posting photos,
// once or on an interval
package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wallnutkraken/gophotopoll/bot"
	"github.com/wallnutkraken/gophotopoll/memlog"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
)

// Server is the main object of the photo bot, owning the state file path, the Bot API client and
// the logs of the current run
type Server struct {
	statePath string
	messenger bot.Messenger
	journal   bot.Journal
	logs      *memlog.Logger
	log       *logrus.Entry
	now       func() time.Time
	lock      *sync.Mutex
}

// Report is what one invocation did
type Report struct {
	RunID      string
	Resolution bot.Resolution
	Dispatched int
	Errors     int
}

// New creates a new instance of the Server. journal may be nil
func New(statePath string, messenger bot.Messenger, journal bot.Journal, logs *memlog.Logger) *Server {
	return &Server{
		statePath: statePath,
		messenger: messenger,
		journal:   journal,
		logs:      logs,
		log:       logs.NewChild("server"),
		now:       time.Now,
		lock:      &sync.Mutex{},
	}
}

// ProcessOnce loads the state file, resolves the expired polls, then dispatches the pending
// updates. Bot API failures are logged and counted in the Report. Only a state file that cannot
// be loaded is returned as an error, nothing is changed in that case
func (s *Server) ProcessOnce() (Report, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	report, log, store, err := s.begin()
	if err != nil {
		return report, err
	}
	tusk := s.newBot(report.RunID)

	report.Resolution, err = tusk.ReconcilePolls(store, s.now())
	if err != nil {
		// The dispatcher saves the whole state again at the end
		log.WithError(err).Error("could not save resolved polls")
	}
	report.Dispatched, err = tusk.ProcessUpdates(store)
	if err != nil {
		log.WithError(err).Error("processing updates failed")
	}

	report.Errors = len(s.logs.Errors())
	log.WithFields(logrus.Fields{
		"deleted":    report.Resolution.Deleted,
		"kept":       report.Resolution.Kept,
		"pending":    report.Resolution.Pending,
		"dispatched": report.Dispatched,
		"errors":     report.Errors,
	}).Info("run finished")
	return report, nil
}

// SendOutPhoto loads the state file and posts a random photo to the chat
func (s *Server) SendOutPhoto() (Report, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	report, log, store, err := s.begin()
	if err != nil {
		return report, err
	}
	if err := s.newBot(report.RunID).PostRandomPhoto(store); err != nil {
		log.WithError(err).Error("could not post a photo")
	}
	if err := store.Save(); err != nil {
		log.WithError(err).Error("could not save state")
	}

	report.Errors = len(s.logs.Errors())
	log.WithField("errors", report.Errors).Info("run finished")
	return report, nil
}

// Start runs ProcessOnce right away and then every interval, until ctx is done or the state file
// can no longer be loaded
//
// This is a blocking call
func (s *Server) Start(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.ProcessOnce(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			s.log.Info("stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// begin starts a new run: a fresh run id, an empty in-memory log and the loaded state
func (s *Server) begin() (Report, *logrus.Entry, *settings.Store, error) {
	s.logs.Reset()
	report := Report{RunID: uuid.New().String()}
	log := s.log.WithField("run_id", report.RunID)

	store, err := settings.Open(s.statePath)
	if err != nil {
		log.WithError(err).Error("could not load state file")
		return report, log, nil, errors.WithMessage(err, "settings.Open")
	}
	return report, log, store, nil
}

func (s *Server) newBot(runID string) *bot.Bot {
	return bot.New(s.messenger, s.journal, s.logs.NewChild("bot").WithField("run_id", runID))
}
