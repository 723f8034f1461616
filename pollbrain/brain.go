// Package pollbrain contains the decision rules for photo deletion polls
package pollbrain

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// The deletion ballot. The options are matched back case-insensitively when the poll closes
const (
	Question   = "Should we remove this photo?"
	OptionYes  = "Yes"
	OptionNo   = "No"
	OpenPeriod = 12 * time.Hour
)

// Replies sent to the poll message once a poll is resolved
const (
	DeletedReply = "The photo was deleted!"
	KeptReply    = "The photo stays!"
)

// Options returns a fresh copy of the ballot options
func Options() []string {
	return []string{OptionYes, OptionNo}
}

// Tally is the final vote count of a closed deletion poll
type Tally struct {
	Yes int
	No  int
}

// Count builds a Tally from the options of a stopped poll. Options other than yes/no are ignored
func Count(options []tgbotapi.PollOption) Tally {
	tally := Tally{}
	for _, option := range options {
		switch strings.ToLower(strings.TrimSpace(option.Text)) {
		case strings.ToLower(OptionYes):
			tally.Yes = option.VoterCount
		case strings.ToLower(OptionNo):
			tally.No = option.VoterCount
		}
	}
	return tally
}

// Delete reports whether the photo should be deleted. A tie keeps the photo
func (t Tally) Delete() bool {
	return t.Yes > t.No
}

// Expired reports whether a poll closing at closeDate (unix seconds) is due at now
func Expired(closeDate int64, now time.Time) bool {
	return closeDate <= now.Unix()
}

// CloseDate returns the unix close date of a poll created at created (unix seconds) and open for open
func CloseDate(created int, open time.Duration) int64 {
	return int64(created) + int64(open/time.Second)
}
