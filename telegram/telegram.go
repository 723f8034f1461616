// Package telegram contains the Bot API client the bot talks to its chat through. Every request
// is built from the typed tgbotapi config of its method, and every failed request is logged here
// with the full API error, so callers only need to treat a returned error as "did not happen"
package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Bot API method names, used for logging and the error journal
const (
	MethodSendMessage   = "sendMessage"
	MethodSendPhoto     = "sendPhoto"
	MethodDeleteMessage = "deleteMessage"
	MethodSendVenue     = "sendVenue"
	MethodSendPoll      = "sendPoll"
	MethodStopPoll      = "stopPoll"
	MethodGetUpdates    = "getUpdates"
)

// ErrorLog receives failed requests, dbwrap.Wrapper implements it
type ErrorLog interface {
	AddSendError(method string, message string) error
}

// Client is a Bot API client bound to a single chat
type Client struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logrus.Entry
	errs   ErrorLog
}

// New connects to the Bot API with the given token. timeout bounds every single HTTP request
func New(token string, chatID int64, timeout time.Duration, log *logrus.Entry) (*Client, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout}, chatID, log)
}

// NewWithEndpoint connects to a Bot API at endpoint, a format string taking the token and the method
func NewWithEndpoint(token, endpoint string, httpClient tgbotapi.HTTPClient, chatID int64, log *logrus.Entry) (*Client, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "tgbotapi.NewBotAPIWithClient")
	}
	log.WithField("bot", api.Self.UserName).Debug("connected to the Bot API")
	return &Client{
		api:    api,
		chatID: chatID,
		log:    log,
	}, nil
}

// SetErrorLog makes the client record every failed request in errs
func (c *Client) SetErrorLog(errs ErrorLog) {
	c.errs = errs
}

// Self returns the bot user the token belongs to
func (c *Client) Self() tgbotapi.User {
	return c.api.Self
}

// SendMessage sends a text message, as a reply when replyTo is not zero. It returns the new message id
func (c *Client) SendMessage(text string, replyTo int) (int, error) {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ReplyToMessageID = replyTo
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, c.fail(MethodSendMessage, err, logrus.Fields{"reply_to": replyTo})
	}
	return sent.MessageID, nil
}

// SendPhoto uploads the photo at path with the given caption. It returns the new message id
func (c *Client) SendPhoto(path, caption string) (int, error) {
	photo := tgbotapi.NewPhoto(c.chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	sent, err := c.api.Send(photo)
	if err != nil {
		return 0, c.fail(MethodSendPhoto, err, logrus.Fields{"path": path})
	}
	return sent.MessageID, nil
}

// DeleteMessage deletes a message from the chat
func (c *Client) DeleteMessage(messageID int) error {
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(c.chatID, messageID)); err != nil {
		return c.fail(MethodDeleteMessage, err, logrus.Fields{"message_id": messageID})
	}
	return nil
}

// SendVenue sends a map pin for the given coordinates
func (c *Client) SendVenue(latitude, longitude float64) error {
	address := fmt.Sprintf("%.6f, %.6f", latitude, longitude)
	venue := tgbotapi.NewVenue(c.chatID, "Photo location", address, latitude, longitude)
	if _, err := c.api.Send(venue); err != nil {
		return c.fail(MethodSendVenue, err, logrus.Fields{"latitude": latitude, "longitude": longitude})
	}
	return nil
}

// SendPoll sends a regular anonymous poll replying to replyTo. The API limits open_period to
// minutes, so none is sent and closing is left to the caller
func (c *Client) SendPoll(question string, options []string, replyTo int) (tgbotapi.Message, error) {
	poll := tgbotapi.NewPoll(c.chatID, question, options...)
	poll.ReplyToMessageID = replyTo
	sent, err := c.api.Send(poll)
	if err != nil {
		return tgbotapi.Message{}, c.fail(MethodSendPoll, err, logrus.Fields{"reply_to": replyTo})
	}
	return sent, nil
}

// StopPoll closes the poll in the given message and returns its final state
func (c *Client) StopPoll(messageID int) (tgbotapi.Poll, error) {
	poll, err := c.api.StopPoll(tgbotapi.NewStopPoll(c.chatID, messageID))
	if err != nil {
		return tgbotapi.Poll{}, c.fail(MethodStopPoll, err, logrus.Fields{"message_id": messageID})
	}
	return poll, nil
}

// GetUpdates fetches the updates starting at offset, without long polling
func (c *Client) GetUpdates(offset int) ([]tgbotapi.Update, error) {
	updates, err := c.api.GetUpdates(tgbotapi.NewUpdate(offset))
	if err != nil {
		return nil, c.fail(MethodGetUpdates, err, logrus.Fields{"offset": offset})
	}
	return updates, nil
}

// fail logs a failed request with everything the API told us about it
func (c *Client) fail(method string, err error, fields logrus.Fields) error {
	entry := c.log.WithFields(fields).WithFields(logrus.Fields{
		"method":  method,
		"chat_id": c.chatID,
	})
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		entry = entry.WithFields(logrus.Fields{
			"code":        apiErr.Code,
			"description": apiErr.Message,
		})
		if apiErr.RetryAfter > 0 {
			entry = entry.WithField("retry_after", apiErr.RetryAfter)
		}
		if apiErr.MigrateToChatID != 0 {
			entry = entry.WithField("migrate_to_chat_id", apiErr.MigrateToChatID)
		}
	}
	entry.WithError(err).Error("Bot API request failed")

	if c.errs != nil {
		if jerr := c.errs.AddSendError(method, err.Error()); jerr != nil {
			c.log.WithError(jerr).Warn("could not journal the failed request")
		}
	}
	return errors.Wrap(err, method)
}
