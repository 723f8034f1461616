// Package bot contains the photo bot: resolving expired deletion polls, dispatching command
// replies and posting random photos
package bot

import (
	"math/rand"
	"sort"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
)

// Bot is the object containing everything to operate the photo bot. It holds no state of its
// own, the state file is passed to every operation as a Store
type Bot struct {
	messenger Messenger
	journal   Journal
	log       *logrus.Entry
	rng       *rand.Rand
	now       func() time.Time
}

// Messenger is the Bot API client, bound to the configured chat. telegram.Client implements it.
// Failed calls are logged by the implementation
type Messenger interface {
	SendMessage(text string, replyTo int) (int, error)
	SendPhoto(path, caption string) (int, error)
	DeleteMessage(messageID int) error
	SendVenue(latitude, longitude float64) error
	SendPoll(question string, options []string, replyTo int) (tgbotapi.Message, error)
	StopPoll(messageID int) (tgbotapi.Poll, error)
	GetUpdates(offset int) ([]tgbotapi.Update, error)
}

// Store is the loaded state file, settings.Store implements it
type Store interface {
	ChatID() int64
	BotID() int64
	Folders() []string
	Offset() int
	UpdateOffset(updateID int)
	Polls() []settings.Poll
	AddPoll(poll settings.Poll) error
	RemovePolls(remove func(settings.Poll) bool) (int, error)
	Save() error
}

// Journal records what the bot did, dbwrap.Wrapper implements it
type Journal interface {
	AddDecision(pollMessageID, imageMessageID int, imagePath string, yes, no int, deleted bool) error
	AddCommand(updateID int, name string, args []string) error
}

type nopJournal struct{}

func (nopJournal) AddDecision(int, int, string, int, int, bool) error { return nil }
func (nopJournal) AddCommand(int, string, []string) error            { return nil }

// New creates a new instance of the bot. journal may be nil
func New(messenger Messenger, journal Journal, log *logrus.Entry) *Bot {
	if journal == nil {
		journal = nopJournal{}
	}
	return &Bot{
		messenger: messenger,
		journal:   journal,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// ProcessUpdates fetches the updates after the stored offset and dispatches the command replies
// among them. Every fetched update is consumed, whether or not it was acted on, and the state is
// saved once at the end. It returns how many commands were dispatched successfully
func (b *Bot) ProcessUpdates(store Store) (int, error) {
	updates, err := b.messenger.GetUpdates(store.Offset() + 1)
	if err != nil {
		return 0, errors.WithMessage(err, "GetUpdates")
	}
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].UpdateID < updates[j].UpdateID
	})

	dispatched := 0
	for _, update := range updates {
		store.UpdateOffset(update.UpdateID)

		reply, ok := ExtractReply(update, store.ChatID(), store.BotID())
		if !ok {
			continue
		}
		name, args := parseCommand(reply.Text)
		command, exists := commands[name]
		if !exists {
			// Not a command, or one for a different bot
			continue
		}
		log := b.log.WithFields(logrus.Fields{
			"update_id": update.UpdateID,
			"command":   name,
			"args":      args,
		})
		if err := b.journal.AddCommand(update.UpdateID, name, args); err != nil {
			log.WithError(err).Warn("could not journal command")
		}
		if err := command(reply, args, store, b); err != nil {
			log.WithError(err).Error("command failed")
			continue
		}
		log.Info("command done")
		dispatched++
	}

	if err := store.Save(); err != nil {
		return dispatched, errors.WithMessage(err, "Save")
	}
	return dispatched, nil
}
