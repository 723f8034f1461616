// Package dbwrap contains the GORM journal of poll decisions, dispatched commands and Bot API
// errors. These functions should only be accessed through an interface, defined by the consumer
// of this package
package dbwrap

import (
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	// Dialects the journal can be opened with
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
)

// Wrapper is the GORM wrapper containing all journal methods
type Wrapper struct {
	db  *gorm.DB
	now func() time.Time
}

// New created a new instance of the database Wrapper
func New(db *gorm.DB) Wrapper {
	return Wrapper{
		db:  db,
		now: time.Now,
	}
}

// Open connects to the journal database and migrates it. dialect is "sqlite3" or "mysql"
func Open(dialect, dsn string) (Wrapper, error) {
	switch dialect {
	case "sqlite3", "mysql":
	default:
		return Wrapper{}, errors.Errorf("unsupported journal dialect %q", dialect)
	}
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return Wrapper{}, errors.Wrap(err, "gorm.Open")
	}
	wrapper := New(db)
	if err := wrapper.AutoMigrate(); err != nil {
		db.Close()
		return Wrapper{}, err
	}
	return wrapper, nil
}

// AutoMigrate runs the AutoMigrate GORM tool
func (w Wrapper) AutoMigrate() error {
	db := w.db
	if db.Dialect().GetName() == "mysql" {
		db = db.Set("gorm:table_options", "CHARSET=utf8mb4")
	}
	return errors.Wrap(db.AutoMigrate(&Decision{}, &Command{}, &SendError{}).Error, "AutoMigrate")
}

// Close closes the underlying connection
func (w Wrapper) Close() error {
	return w.db.Close()
}

// AddDecision records the outcome of a resolved poll
func (w Wrapper) AddDecision(pollMessageID, imageMessageID int, imagePath string, yes, no int, deleted bool) error {
	decision := Decision{
		PollMessageID:  pollMessageID,
		ImageMessageID: imageMessageID,
		ImagePath:      imagePath,
		Yes:            yes,
		No:             no,
		Deleted:        deleted,
		Unix:           w.now().Unix(),
	}
	return w.db.Create(&decision).Error
}

// GetDecisions returns every decision, oldest first
func (w Wrapper) GetDecisions() ([]Decision, error) {
	decisions := []Decision{}
	return decisions, w.db.Order("id asc").Find(&decisions).Error
}

// AddCommand records a dispatched command
func (w Wrapper) AddCommand(updateID int, name string, args []string) error {
	cmd := Command{
		UpdateID: updateID,
		Name:     name,
		Args:     strings.Join(args, " "),
		Unix:     w.now().Unix(),
	}
	return w.db.Create(&cmd).Error
}

// GetCommands returns every recorded command, oldest first
func (w Wrapper) GetCommands() ([]Command, error) {
	cmds := []Command{}
	return cmds, w.db.Order("id asc").Find(&cmds).Error
}

// AddSendError creates a new Bot API error row
func (w Wrapper) AddSendError(method string, message string) error {
	sendErr := SendError{
		Method: method,
		Error:  message,
		Unix:   w.now().Unix(),
	}
	return w.db.Create(&sendErr).Error
}

// GetSendErrors returns all Bot API errors
func (w Wrapper) GetSendErrors() ([]SendError, error) {
	errs := []SendError{}
	return errs, w.db.Order("id asc").Find(&errs).Error
}

// PurgeSendErrors deletes all Bot API errors
func (w Wrapper) PurgeSendErrors() error {
	return w.db.Delete(&SendError{}).Error
}
