package bot

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wallnutkraken/gophotopoll/photos"
	"github.com/wallnutkraken/gophotopoll/pollbrain"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
)

// RotatePhoto rotates the photo file at path, keeping its metadata where the format allows
func (b *Bot) RotatePhoto(path string, dir photos.Direction) error {
	if err := photos.Rotate(path, dir, b.log.WithField("path", path)); err != nil {
		return errors.WithMessage(err, "photos.Rotate")
	}
	return nil
}

// RequestDeletion sends a poll replying to the photo and records it as open until open has
// passed. The photo's path is taken from the caption of the message the poll replies to. If the
// poll could not be sent, nothing is recorded
func (b *Bot) RequestDeletion(store Store, reply Reply, question string, options []string, open time.Duration) error {
	imagePath, err := photos.NewLibrary(store.Folders()).Resolve(reply.PhotoPath())
	if err != nil {
		return errors.WithMessage(err, "Resolve")
	}

	sent, err := b.messenger.SendPoll(question, options, reply.PhotoMessageID)
	if err != nil {
		return errors.WithMessage(err, "SendPoll")
	}
	created := sent.Date
	if created == 0 {
		created = int(b.now().Unix())
	}
	imageMessageID := reply.PhotoMessageID
	if sent.ReplyToMessage != nil && sent.ReplyToMessage.MessageID != 0 {
		imageMessageID = sent.ReplyToMessage.MessageID
	}

	poll := settings.Poll{
		PollMessageID:  sent.MessageID,
		CloseDate:      pollbrain.CloseDate(created, open),
		ImagePath:      imagePath,
		ImageMessageID: imageMessageID,
	}
	if err := store.AddPoll(poll); err != nil {
		return errors.WithMessage(err, "AddPoll")
	}
	b.log.WithFields(logrus.Fields{
		"poll_message_id": poll.PollMessageID,
		"close_date":      poll.CloseDate,
		"image_path":      poll.ImagePath,
	}).Info("deletion poll opened")
	return nil
}
