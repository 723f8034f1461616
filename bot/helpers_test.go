package bot_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/wallnutkraken/gophotopoll/bot"
	"github.com/wallnutkraken/gophotopoll/memlog"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
)

const (
	chatID = int64(-1001)
	botID  = int64(555)
)

var errTransport = errors.New("Bad Request: something went wrong")

// fakeMessenger records every call as a line, in order
type fakeMessenger struct {
	calls []string

	updates    []tgbotapi.Update
	updatesErr error
	stopped    map[int]tgbotapi.Poll
	stopErr    map[int]error
	sentPoll   tgbotapi.Message
	pollErr    error
	pollOpts   [][]string
	nextID     int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		stopped: map[int]tgbotapi.Poll{},
		stopErr: map[int]error{},
		nextID:  1000,
	}
}

func (f *fakeMessenger) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeMessenger) SendMessage(text string, replyTo int) (int, error) {
	f.record("sendMessage %q reply=%d", text, replyTo)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeMessenger) SendPhoto(path, caption string) (int, error) {
	f.record("sendPhoto %s %q", filepath.Base(path), caption)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeMessenger) DeleteMessage(messageID int) error {
	f.record("deleteMessage %d", messageID)
	return nil
}

func (f *fakeMessenger) SendVenue(latitude, longitude float64) error {
	f.record("sendVenue %f %f", latitude, longitude)
	return nil
}

func (f *fakeMessenger) SendPoll(question string, options []string, replyTo int) (tgbotapi.Message, error) {
	f.record("sendPoll %q reply=%d", question, replyTo)
	f.pollOpts = append(f.pollOpts, options)
	if f.pollErr != nil {
		return tgbotapi.Message{}, f.pollErr
	}
	return f.sentPoll, nil
}

func (f *fakeMessenger) StopPoll(messageID int) (tgbotapi.Poll, error) {
	f.record("stopPoll %d", messageID)
	if err := f.stopErr[messageID]; err != nil {
		return tgbotapi.Poll{}, err
	}
	return f.stopped[messageID], nil
}

func (f *fakeMessenger) GetUpdates(offset int) ([]tgbotapi.Update, error) {
	f.record("getUpdates %d", offset)
	return f.updates, f.updatesErr
}

func votes(yes, no int) tgbotapi.Poll {
	return tgbotapi.Poll{
		ID:       "p",
		Question: "Should we remove this photo?",
		Options: []tgbotapi.PollOption{
			{Text: "Yes", VoterCount: yes},
			{Text: "No", VoterCount: no},
		},
		IsClosed: true,
	}
}

type fakeJournal struct {
	decisions []string
	commands  []string
}

func (j *fakeJournal) AddDecision(pollMessageID, imageMessageID int, imagePath string, yes, no int, deleted bool) error {
	j.decisions = append(j.decisions, fmt.Sprintf("%d %d/%d deleted=%t", pollMessageID, yes, no, deleted))
	return nil
}

func (j *fakeJournal) AddCommand(updateID int, name string, args []string) error {
	j.commands = append(j.commands, fmt.Sprintf("%d %s %v", updateID, name, args))
	return nil
}

// fixture is a state file on disk with one photo folder
type fixture struct {
	folder    string
	statePath string
	store     *settings.Store
	messenger *fakeMessenger
	journal   *fakeJournal
	logs      *memlog.Logger
	bot       *bot.Bot
}

func newFixture(t *testing.T, polls ...settings.Poll) *fixture {
	t.Helper()
	dir := t.TempDir()
	folder := filepath.Join(dir, "photos")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	statePath := filepath.Join(dir, "config.cfg")
	require.NoError(t, settings.Save(settings.State{
		Token:   "123:abc",
		ChatID:  chatID,
		BotID:   botID,
		Folders: []string{folder},
		Polls:   polls,
	}, statePath))
	store, err := settings.Open(statePath)
	require.NoError(t, err)

	f := &fixture{
		folder:    folder,
		statePath: statePath,
		store:     store,
		messenger: newFakeMessenger(),
		journal:   &fakeJournal{},
		logs:      memlog.Discard(),
	}
	f.bot = bot.New(f.messenger, f.journal, f.logs.NewChild("bot"))
	return f
}

// onDisk reloads the state file
func (f *fixture) onDisk(t *testing.T) settings.State {
	t.Helper()
	state, err := settings.Load(f.statePath)
	require.NoError(t, err)
	return state
}

// writePhoto writes a 32x16 JPEG at rel inside the photo folder
func (f *fixture) writePhoto(t *testing.T, rel string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for x := 0; x < 32; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	path := filepath.Join(f.folder, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// photoReply is a chat member's reply to photo message 9 posted by the bot
func photoReply(updateID int, text, caption string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: 100 + updateID,
			From:      &tgbotapi.User{ID: 7, FirstName: "Ann"},
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "group"},
			Text:      text,
			ReplyToMessage: &tgbotapi.Message{
				MessageID: 9,
				From:      &tgbotapi.User{ID: botID, IsBot: true},
				Chat:      &tgbotapi.Chat{ID: chatID, Type: "group"},
				Photo:     []tgbotapi.PhotoSize{{FileID: "photo-file", Width: 32, Height: 16}},
				Caption:   caption,
			},
		},
	}
}
