package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/mosaicnetworks/dcr/src/common"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultGraphFile is the default name of the graph definition file in the
	// data directory.
	DefaultGraphFile = "graph.yaml"
)

// Default configuration values.
const (
	DefaultLogLevel              = "debug"
	DefaultBindAddr              = "127.0.0.1:1337"
	DefaultServiceAddr           = "127.0.0.1:8000"
	DefaultTCPTimeout            = 1000 * time.Millisecond
	DefaultMaxPool               = 2
	DefaultMaxConnectionAttempts = 5
	DefaultRetryInterval         = 500 * time.Millisecond
	DefaultDedupCacheSize        = 10000
	DefaultNoService             = false
)

// Config contains all the configuration properties of a main node.
type Config struct {
	// DataDir is the top-level directory containing the peers file and the
	// graph definition.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// Name is the name of this main node in peers.json. Events are assigned
	// to main nodes by this name.
	Name string `mapstructure:"name"`

	// BindAddr is the local address:port where this node listens to other main
	// nodes and to end-user nodes.
	BindAddr string `mapstructure:"listen"`

	// AdvertiseAddr is used to change the address that we advertise to other
	// nodes.
	AdvertiseAddr string `mapstructure:"advertise"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the optional HTTP service.
	ServiceAddr string `mapstructure:"service-listen"`

	// MaxPool controls how many connections are pooled per peer.
	MaxPool int `mapstructure:"max-pool"`

	// TCPTimeout bounds every request to another main node. A peer that does
	// not answer in time is treated as unavailable.
	TCPTimeout time.Duration `mapstructure:"timeout"`

	// MaxConnectionAttempts bounds the background retries of UNBLOCK and
	// REVERT messages that a peer did not answer.
	MaxConnectionAttempts int `mapstructure:"max-connection-attempts"`

	// RetryInterval is the pause between two of those retries.
	RetryInterval time.Duration `mapstructure:"retry-interval"`

	// DedupCacheSize is the number of ACCEPTING and LOG query ids remembered
	// to detect duplicate queries.
	DedupCacheSize int `mapstructure:"dedup-cache-size"`

	// GraphFile is the path of the graph definition. Relative paths are
	// resolved against DataDir.
	GraphFile string `mapstructure:"graph"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:               DefaultDataDir(),
		LogLevel:              DefaultLogLevel,
		BindAddr:              DefaultBindAddr,
		ServiceAddr:           DefaultServiceAddr,
		NoService:             DefaultNoService,
		MaxPool:               DefaultMaxPool,
		TCPTimeout:            DefaultTCPTimeout,
		MaxConnectionAttempts: DefaultMaxConnectionAttempts,
		RetryInterval:         DefaultRetryInterval,
		DedupCacheSize:        DefaultDedupCacheSize,
		GraphFile:             DefaultGraphFile,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// GraphPath returns the full path of the graph definition.
func (c *Config) GraphPath() string {
	if filepath.IsAbs(c.GraphFile) {
		return c.GraphFile
	}
	return filepath.Join(c.DataDir, c.GraphFile)
}

// Logger returns a formatted logrus Entry, with prefix set to "dcr".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "dcr")
}

// DefaultDataDir return the default directory name for top-level config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".DCR")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "DCR")
		} else {
			return filepath.Join(home, ".dcr")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
