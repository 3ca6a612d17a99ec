package graph

import (
	"testing"
	"time"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/sirupsen/logrus"
)

// Config holds the parameters of the distributed execution protocol.
type Config struct {
	// Name is this main node's name in the peer set.
	Name string `mapstructure:"name"`

	// MaxConnectionAttempts bounds the background retries of UNBLOCK and
	// REVERT messages that a peer did not answer.
	MaxConnectionAttempts int `mapstructure:"max-connection-attempts"`

	// RetryInterval is the pause between two retries.
	RetryInterval time.Duration `mapstructure:"retry-interval"`

	// DedupCacheSize is the number of ACCEPTING and LOG query ids
	// remembered to detect duplicates.
	DedupCacheSize int `mapstructure:"dedup-cache-size"`

	Logger *logrus.Entry
}

// NewConfig ...
func NewConfig(name string,
	maxConnectionAttempts int,
	retryInterval time.Duration,
	dedupCacheSize int,
	logger *logrus.Entry) *Config {

	return &Config{
		Name:                  name,
		MaxConnectionAttempts: maxConnectionAttempts,
		RetryInterval:         retryInterval,
		DedupCacheSize:        dedupCacheSize,
		Logger:                logger,
	}
}

// DefaultConfig ...
func DefaultConfig(name string) *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		Name:                  name,
		MaxConnectionAttempts: 5,
		RetryInterval:         500 * time.Millisecond,
		DedupCacheSize:        10000,
		Logger:                logrus.NewEntry(logger),
	}
}

// TestConfig returns a config with short retries and a logger writing into
// t.Log.
func TestConfig(t testing.TB, name string) *Config {
	config := DefaultConfig(name)
	config.RetryInterval = 10 * time.Millisecond
	config.MaxConnectionAttempts = 3
	config.Logger = common.NewTestEntry(t, common.TestLogLevel).WithField("node", name)
	return config
}
