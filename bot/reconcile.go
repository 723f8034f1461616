package bot

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wallnutkraken/gophotopoll/pollbrain"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
)

// Resolution counts the outcome of one reconciliation pass
type Resolution struct {
	Deleted int
	Kept    int
	Pending int
}

// ReconcilePolls closes every poll whose close date has passed at now and applies its outcome.
// A poll that could not be stopped stays open and is tried again on the next pass. Resolved polls
// are removed from the store with a single save
func (b *Bot) ReconcilePolls(store Store, now time.Time) (Resolution, error) {
	res := Resolution{}
	resolved := map[settings.Poll]bool{}
	for _, poll := range store.Polls() {
		if !pollbrain.Expired(poll.CloseDate, now) {
			continue
		}
		stopped, err := b.messenger.StopPoll(poll.PollMessageID)
		if err != nil {
			res.Pending++
			continue
		}
		tally := pollbrain.Count(stopped.Options)
		log := b.log.WithFields(logrus.Fields{
			"poll_message_id": poll.PollMessageID,
			"image_path":      poll.ImagePath,
			"yes":             tally.Yes,
			"no":              tally.No,
		})
		if tally.Delete() {
			b.votedToDelete(poll, log)
			res.Deleted++
		} else {
			b.votedToKeep(poll, log)
			res.Kept++
		}
		resolved[poll] = true

		if err := b.journal.AddDecision(poll.PollMessageID, poll.ImageMessageID, poll.ImagePath, tally.Yes, tally.No, tally.Delete()); err != nil {
			log.WithError(err).Warn("could not journal decision")
		}
	}

	if len(resolved) == 0 {
		return res, nil
	}
	if _, err := store.RemovePolls(func(p settings.Poll) bool { return resolved[p] }); err != nil {
		return res, errors.WithMessage(err, "RemovePolls")
	}
	return res, nil
}

// votedToDelete removes the photo message and file, then announces it under the poll.
// A photo file that is already gone is fine, the poll may have been resolved before a crash
func (b *Bot) votedToDelete(poll settings.Poll, log *logrus.Entry) {
	_ = b.messenger.DeleteMessage(poll.ImageMessageID)
	if err := os.Remove(poll.ImagePath); err != nil {
		if os.IsNotExist(err) {
			log.Warn("photo file already removed")
		} else {
			log.WithError(err).Error("could not remove photo file")
		}
	}
	_, _ = b.messenger.SendMessage(pollbrain.DeletedReply, poll.PollMessageID)
	log.Info("photo deleted by vote")
}

func (b *Bot) votedToKeep(poll settings.Poll, log *logrus.Entry) {
	_, _ = b.messenger.SendMessage(pollbrain.KeptReply, poll.PollMessageID)
	log.Info("photo kept by vote")
}
