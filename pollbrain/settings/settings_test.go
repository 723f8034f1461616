package settings_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallnutkraken/gophotopoll/pollbrain/settings"
)

const stateJSON = `{
  "token": "123:abc",
  "chat_id": "-1001",
  "bot_id": "555",
  "folders": ["/photos/a", "/photos/b"],
  "last_update_id": 41,
  "polls": [
    {"poll_message_id": "10", "close_date": 100, "image_path": "/photos/a/x.jpg", "image_message_id": "9"}
  ]
}`

func writeState(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.cfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ParsesStateFile(t *testing.T) {
	state, err := settings.Load(writeState(t, stateJSON))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", state.Token)
	assert.Equal(t, int64(-1001), state.ChatID)
	assert.Equal(t, int64(555), state.BotID)
	assert.Equal(t, []string{"/photos/a", "/photos/b"}, state.Folders)
	assert.Equal(t, 41, state.LastUpdateID)
	require.Len(t, state.Polls, 1)
	assert.Equal(t, settings.Poll{PollMessageID: 10, CloseDate: 100, ImagePath: "/photos/a/x.jpg", ImageMessageID: 9}, state.Polls[0])
}

func TestLoad_ConfigErrors(t *testing.T) {
	cases := map[string]string{
		"missing": filepath.Join(t.TempDir(), "nope.cfg"),
		"invalid": writeState(t, "{not json"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := settings.Load(path)
			require.Error(t, err)
			var cfgErr *settings.ConfigError
			assert.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, path, cfgErr.Path)
		})
	}
}

func TestSave_RoundTripsStringIDs(t *testing.T) {
	path := writeState(t, stateJSON)
	state, err := settings.Load(path)
	require.NoError(t, err)

	require.NoError(t, settings.Save(state, path))

	raw := map[string]interface{}{}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "-1001", raw["chat_id"])
	assert.Equal(t, "555", raw["bot_id"])
	polls := raw["polls"].([]interface{})
	assert.Equal(t, "10", polls[0].(map[string]interface{})["poll_message_id"])
	assert.Equal(t, float64(100), polls[0].(map[string]interface{})["close_date"])
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	path := writeState(t, stateJSON)
	state, err := settings.Load(path)
	require.NoError(t, err)
	require.NoError(t, settings.Save(state, path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_UpdateOffsetIsMonotonic(t *testing.T) {
	store := settings.NewStore(filepath.Join(t.TempDir(), "s.cfg"), settings.State{LastUpdateID: 10})
	store.UpdateOffset(12)
	store.UpdateOffset(11)
	store.UpdateOffset(3)
	assert.Equal(t, 12, store.Offset())
}

func TestStore_AddAndRemovePollsPersist(t *testing.T) {
	path := writeState(t, stateJSON)
	store, err := settings.Open(path)
	require.NoError(t, err)

	require.NoError(t, store.AddPoll(settings.Poll{PollMessageID: 20, CloseDate: 300, ImagePath: "/photos/b/y.jpg", ImageMessageID: 19}))
	require.NoError(t, store.AddPoll(settings.Poll{PollMessageID: 30, CloseDate: 50, ImagePath: "/photos/b/z.jpg", ImageMessageID: 29}))

	onDisk, err := settings.Load(path)
	require.NoError(t, err)
	require.Len(t, onDisk.Polls, 3)

	removed, err := store.RemovePolls(func(p settings.Poll) bool { return p.CloseDate <= 100 })
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	onDisk, err = settings.Load(path)
	require.NoError(t, err)
	require.Len(t, onDisk.Polls, 1)
	assert.Equal(t, 20, onDisk.Polls[0].PollMessageID)
	assert.Equal(t, onDisk.Polls, store.Polls())
}

func TestStore_SaveKeepsConfiguration(t *testing.T) {
	path := writeState(t, stateJSON)
	store, err := settings.Open(path)
	require.NoError(t, err)
	store.UpdateOffset(42)
	require.NoError(t, store.Save())

	onDisk, err := settings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, onDisk.LastUpdateID)
	assert.Equal(t, "123:abc", onDisk.Token)
	assert.Equal(t, store.Snapshot(), onDisk)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv(settings.EnvConfig, "/etc/photobot.cfg")
	t.Setenv(settings.EnvLogLevel, "debug")
	t.Setenv(settings.EnvTimeout, "5s")
	t.Setenv(settings.EnvJournalDialect, "")

	env, err := settings.LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "/etc/photobot.cfg", env.ConfigPath)
	assert.Equal(t, logrus.DebugLevel, env.LogLevel)
	assert.Equal(t, 5*time.Second, env.Timeout)
}

func TestLoadEnvironment_JournalNeedsDSN(t *testing.T) {
	t.Setenv(settings.EnvJournalDialect, "sqlite3")
	t.Setenv(settings.EnvJournalDSN, "")
	_, err := settings.LoadEnvironment()
	assert.Error(t, err)
}
