package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mosaicnetworks/dcr/src/dcr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//NewRunCmd returns the command that starts a main node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run main node",
		PreRunE: loadConfig,
		RunE:    runDCR,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runDCR(cmd *cobra.Command, args []string) error {
	engine := dcr.NewDCR(_config)

	if err := engine.Init(); err != nil {
		_config.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		_config.Logger().Info("Received an interrupt, shutting down")
		engine.Shutdown()
		close(done)
	}()

	engine.Run()

	<-done

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().StringP("name", "n", _config.Name, "Name of this main node in peers.json")
	cmd.Flags().StringP("graph", "g", _config.GraphFile, "Graph definition, relative to datadir unless absolute")

	// Network
	cmd.Flags().StringP("listen", "l", _config.BindAddr, "Listen IP:Port for main node")
	cmd.Flags().StringP("advertise", "a", _config.AdvertiseAddr, "Advertise IP:Port for main node")
	cmd.Flags().DurationP("timeout", "t", _config.TCPTimeout, "TCP Timeout")
	cmd.Flags().Int("max-pool", _config.MaxPool, "Connection pool size max")

	// Service
	cmd.Flags().Bool("no-service", _config.NoService, "Disable HTTP service")
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for HTTP service")

	// Protocol
	cmd.Flags().Int("max-connection-attempts", _config.MaxConnectionAttempts, "Retries of an UNBLOCK or REVERT towards an unreachable peer")
	cmd.Flags().Duration("retry-interval", _config.RetryInterval, "Time between retries")
	cmd.Flags().Int("dedup-cache-size", _config.DedupCacheSize, "Number of query ids remembered for deduplication")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	_config.Logger().WithFields(logrus.Fields{
		"dcr.DataDir":               _config.DataDir,
		"dcr.Name":                  _config.Name,
		"dcr.GraphFile":             _config.GraphPath(),
		"dcr.BindAddr":              _config.BindAddr,
		"dcr.AdvertiseAddr":         _config.AdvertiseAddr,
		"dcr.NoService":             _config.NoService,
		"dcr.ServiceAddr":           _config.ServiceAddr,
		"dcr.MaxPool":               _config.MaxPool,
		"dcr.TCPTimeout":            _config.TCPTimeout,
		"dcr.MaxConnectionAttempts": _config.MaxConnectionAttempts,
		"dcr.RetryInterval":         _config.RetryInterval,
		"dcr.DedupCacheSize":        _config.DedupCacheSize,
		"dcr.LogLevel":              _config.LogLevel,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/dcr.toml (.json, .yaml also work)
	viper.SetConfigName("dcr")           // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir) // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
