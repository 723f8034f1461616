package dbwrap

// Decision is the outcome of one resolved deletion poll
type Decision struct {
	ID             int    `gorm:"primary_key"`
	PollMessageID  int    `gorm:"not null;index"`
	ImageMessageID int    `gorm:"not null"`
	ImagePath      string `gorm:"not null"`
	Yes            int    `gorm:"not null"`
	No             int    `gorm:"not null"`
	Deleted        bool   `gorm:"not null"`
	Unix           int64  `gorm:"not null"`
}

// Command is a command reply that was dispatched to an action
type Command struct {
	ID       int    `gorm:"primary_key"`
	UpdateID int    `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Args     string
	Unix     int64 `gorm:"not null"`
}

// SendError is a failed Bot API call
type SendError struct {
	ID     int    `gorm:"primary_key"`
	Method string `gorm:"not null"`
	Error  string `gorm:"not null"`
	Unix   int64  `gorm:"not null"`
}
