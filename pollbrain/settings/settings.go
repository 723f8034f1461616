// Package settings contains the JSON-encoded bot state: the static bot configuration, the open
// deletion polls and the Telegram update offset
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

// DefaultPath is the state file read when nothing else is configured
const DefaultPath = "config.cfg"

// Poll is a deletion vote that is still open, tied to one photo
type Poll struct {
	PollMessageID  int    `json:"poll_message_id,string"`
	CloseDate      int64  `json:"close_date"`
	ImagePath      string `json:"image_path"`
	ImageMessageID int    `json:"image_message_id,string"`
}

// State is the whole state file. Token, ChatID, BotID and Folders are configuration and
// are never changed by the bot
type State struct {
	Token        string   `json:"token"`
	ChatID       int64    `json:"chat_id,string"`
	BotID        int64    `json:"bot_id,string"`
	Folders      []string `json:"folders"`
	LastUpdateID int      `json:"last_update_id"`
	Polls        []Poll   `json:"polls"`
}

// ConfigError is returned when the state file is missing, unreadable or not valid JSON
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("state file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads the state file at path
func Load(path string) (State, error) {
	stateBytes, err := os.ReadFile(path)
	if err != nil {
		return State{}, &ConfigError{Path: path, Err: err}
	}
	state := State{}
	if err := json.Unmarshal(stateBytes, &state); err != nil {
		return State{}, &ConfigError{Path: path, Err: errors.Wrap(err, "json")}
	}
	if state.Polls == nil {
		state.Polls = []Poll{}
	}
	return state, nil
}

// Save writes the given state to path. The previous file is replaced by a rename, so a crash
// mid-write leaves it intact
func Save(state State, path string) error {
	if state.Polls == nil {
		state.Polls = []Poll{}
	}
	stateBytes, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "json")
	}
	if err := renameio.WriteFile(path, stateBytes, 0o600); err != nil {
		return errors.Wrap(err, "renameio.WriteFile")
	}
	return nil
}
