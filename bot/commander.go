package bot

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wallnutkraken/gophotopoll/photos"
	"github.com/wallnutkraken/gophotopoll/pollbrain"
	"github.com/wallnutkraken/gophotopoll/stringer"
)

// Commander maps command names to their Command
type Commander map[string]Command

// Command handles one command reply. args are the words after the command name
type Command func(reply Reply, args []string, store Store, bot *Bot) error

// RotateUsage is sent back when /rotate gets bad arguments
const RotateUsage = "Syntax: /rotate cw|ccw"

var commands = Commander{
	"/rotate": Rotate,
	"/delete": Delete,
}

// Rotate turns the photo a quarter turn and posts it again in place of the old message
func Rotate(reply Reply, args []string, store Store, bot *Bot) error {
	if len(args) != 1 {
		return bot.usage(reply, RotateUsage)
	}
	dir, ok := photos.ParseDirection(args[0])
	if !ok {
		return bot.usage(reply, RotateUsage)
	}
	path, err := photos.NewLibrary(store.Folders()).Resolve(reply.PhotoPath())
	if err != nil {
		return errors.WithMessage(err, "Resolve")
	}
	if err := bot.RotatePhoto(path, dir); err != nil {
		return err
	}
	// A failed delete is logged by the messenger, the rotated photo is posted either way
	_ = bot.messenger.DeleteMessage(reply.PhotoMessageID)
	if _, err := bot.messenger.SendPhoto(path, reply.Caption); err != nil {
		return errors.WithMessage(err, "SendPhoto")
	}
	return nil
}

// Delete opens a poll on whether the photo should be deleted
func Delete(reply Reply, args []string, store Store, bot *Bot) error {
	return bot.RequestDeletion(store, reply, pollbrain.Question, pollbrain.Options(), pollbrain.OpenPeriod)
}

// usage answers a malformed command. It is not an error of the bot
func (b *Bot) usage(reply Reply, text string) error {
	b.log.WithFields(logrus.Fields{
		"update_id": reply.UpdateID,
		"text":      reply.Text,
	}).Info("bad command arguments")
	if _, err := b.messenger.SendMessage(text, reply.MessageID); err != nil {
		return errors.WithMessage(err, "SendMessage")
	}
	return nil
}

// parseCommand splits a reply into the command name and its arguments. The name loses any
// @botname suffix. Text not starting with a slash has no command name
func parseCommand(text string) (string, []string) {
	parts := stringer.SplitMultiple(text, stringer.Whitespace)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return "", nil
	}
	name := parts[0]
	if idx := strings.IndexByte(name, '@'); idx >= 0 {
		name = name[:idx]
	}
	return name, parts[1:]
}
