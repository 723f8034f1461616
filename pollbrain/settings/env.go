package settings

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Environment variables read by LoadEnvironment
const (
	EnvConfig         = "PHOTOBOT_CONFIG"
	EnvLogLevel       = "PHOTOBOT_LOG_LEVEL"
	EnvLogFile        = "PHOTOBOT_LOG_FILE"
	EnvTimeout        = "PHOTOBOT_TIMEOUT"
	EnvJournalDialect = "PHOTOBOT_JOURNAL_DIALECT"
	EnvJournalDSN     = "PHOTOBOT_JOURNAL_DSN"
)

// DefaultTimeout is the HTTP timeout of a single Bot API request
const DefaultTimeout = 60 * time.Second

// Environment is the process configuration that lives outside the state file
type Environment struct {
	ConfigPath     string
	LogLevel       logrus.Level
	LogFile        string
	Timeout        time.Duration
	JournalDialect string
	JournalDSN     string
}

// LoadEnvironment reads the process environment, after loading a .env file if there is one
func LoadEnvironment() (Environment, error) {
	// A missing .env is normal, the variables may come from the real environment
	_ = godotenv.Load()

	env := Environment{
		ConfigPath:     os.Getenv(EnvConfig),
		LogLevel:       logrus.InfoLevel,
		LogFile:        os.Getenv(EnvLogFile),
		Timeout:        DefaultTimeout,
		JournalDialect: os.Getenv(EnvJournalDialect),
		JournalDSN:     os.Getenv(EnvJournalDSN),
	}
	if env.ConfigPath == "" {
		env.ConfigPath = DefaultPath
	}
	if val, ok := os.LookupEnv(EnvLogLevel); ok && val != "" {
		level, err := logrus.ParseLevel(val)
		if err != nil {
			return Environment{}, errors.Wrap(err, EnvLogLevel)
		}
		env.LogLevel = level
	}
	if val, ok := os.LookupEnv(EnvTimeout); ok && val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return Environment{}, errors.Wrap(err, EnvTimeout)
		}
		env.Timeout = timeout
	}
	if env.JournalDialect != "" && env.JournalDSN == "" {
		return Environment{}, errors.Errorf("%s is set but %s is empty", EnvJournalDialect, EnvJournalDSN)
	}
	return env, nil
}
