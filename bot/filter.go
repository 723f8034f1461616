package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wallnutkraken/gophotopoll/stringer"
)

// Reply is an update the bot cares about: a message in the configured chat replying to a photo
// the bot posted
type Reply struct {
	UpdateID       int
	MessageID      int
	Text           string
	PhotoMessageID int
	Caption        string
}

// PhotoPath is the photo's path relative to the watched folders, kept in the caption's first line
func (r Reply) PhotoPath() string {
	return stringer.FirstLine(r.Caption)
}

// ExtractReply picks the fields of a relevant reply out of an update. Anything else (not a
// message, another chat, not a reply, not a reply to a photo of this bot) yields false
func ExtractReply(update tgbotapi.Update, chatID, botID int64) (Reply, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Chat.ID != chatID {
		return Reply{}, false
	}
	target := msg.ReplyToMessage
	if target == nil || len(target.Photo) == 0 {
		return Reply{}, false
	}
	if target.From == nil || target.From.ID != botID {
		return Reply{}, false
	}
	return Reply{
		UpdateID:       update.UpdateID,
		MessageID:      msg.MessageID,
		Text:           msg.Text,
		PhotoMessageID: target.MessageID,
		Caption:        target.Caption,
	}, true
}
