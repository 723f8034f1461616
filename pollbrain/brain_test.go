package pollbrain_test

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/wallnutkraken/gophotopoll/pollbrain"
)

func TestCount_MatchesCaseInsensitively(t *testing.T) {
	tally := pollbrain.Count([]tgbotapi.PollOption{
		{Text: "YES", VoterCount: 3},
		{Text: "no", VoterCount: 1},
		{Text: "maybe", VoterCount: 9},
	})
	assert.Equal(t, pollbrain.Tally{Yes: 3, No: 1}, tally)
	assert.True(t, tally.Delete())
}

func TestTally_TieKeeps(t *testing.T) {
	assert.False(t, pollbrain.Tally{Yes: 2, No: 2}.Delete())
	assert.False(t, pollbrain.Tally{}.Delete())
	assert.False(t, pollbrain.Tally{Yes: 1, No: 4}.Delete())
}

func TestExpired(t *testing.T) {
	now := time.Unix(200, 0)
	assert.True(t, pollbrain.Expired(100, now))
	assert.True(t, pollbrain.Expired(200, now))
	assert.False(t, pollbrain.Expired(201, now))
}

func TestCloseDate_IsTwelveHoursAfterCreation(t *testing.T) {
	assert.Equal(t, int64(1000+43200), pollbrain.CloseDate(1000, pollbrain.OpenPeriod))
}

func TestOptions_ReturnsCopy(t *testing.T) {
	opts := pollbrain.Options()
	opts[0] = "changed"
	assert.Equal(t, []string{"Yes", "No"}, pollbrain.Options())
}
