package commands

import (
	"time"

	"github.com/mosaicnetworks/dcr/src/config"
)

//CLIConfig contains the configuration of an end-user node client
type CLIConfig struct {
	Connect  string        `mapstructure:"connect"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLevel string        `mapstructure:"log"`
	Discard  bool          `mapstructure:"discard"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Connect:  config.DefaultBindAddr,
		Timeout:  config.DefaultTCPTimeout,
		LogLevel: "info",
		Discard:  false,
	}
}
