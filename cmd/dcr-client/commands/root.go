package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mosaicnetworks/dcr/src/config"
	"github.com/mosaicnetworks/dcr/src/net"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	_config = NewDefaultCLIConfig()
	logger  *logrus.Logger
)

func init() {
	RootCmd.Flags().StringP("connect", "c", _config.Connect, "IP:Port of the main node")
	RootCmd.Flags().DurationP("timeout", "t", _config.Timeout, "TCP Timeout")
	RootCmd.Flags().Bool("discard", _config.Discard, "discard log output to stderr")
	RootCmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
}

//RootCmd is the root command for the end-user node client. With arguments it
//sends a single request, otherwise it reads one request per line from stdin.
var RootCmd = &cobra.Command{
	Use:     "dcr-client [COMMAND ARGS...]",
	Short:   "End-user client for a DCR main node",
	Example: "  dcr-client -c 127.0.0.1:1337 EXECUTE approve\n  dcr-client PERMISSIONS",
	PreRunE: loadConfig,
	RunE:    runClient,
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runClient(cmd *cobra.Command, args []string) error {
	client := net.NewTCPClient(_config.Timeout, logger.WithField("component", "CLIENT"))
	defer client.Close()

	if len(args) > 0 {
		reply, err := request(client, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	}

	return interactive(client, cmd.InOrStdin(), cmd.OutOrStdout())
}

func interactive(client net.Transport, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		reply, err := request(client, text)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply)
	}
	return scanner.Err()
}

func request(client net.Transport, msg string) (string, error) {
	logger.WithFields(logrus.Fields{
		"target":  _config.Connect,
		"request": msg,
	}).Debug("Sending request")

	reply, err := client.Send(_config.Connect, net.RoleNode, msg, true)
	if err != nil {
		logger.WithError(err).Error("Request failed")
		return "", err
	}

	logger.WithField("reply", reply).Info("Reply")

	return reply, nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

func loadConfig(cmd *cobra.Command, args []string) error {

	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return err
	}

	_config, err = parseConfig()
	if err != nil {
		return err
	}

	logger = newLogger()
	logger.Level = config.LogLevel(_config.LogLevel)

	logger.WithFields(logrus.Fields{
		"connect": _config.Connect,
		"timeout": _config.Timeout,
		"discard": _config.Discard,
		"log":     _config.LogLevel,
	}).Debug("RUN")

	return nil
}

//Retrieve the default environment configuration.
func parseConfig() (*CLIConfig, error) {
	conf := NewDefaultCLIConfig()
	err := viper.Unmarshal(conf)
	if err != nil {
		return nil, err
	}
	return conf, err
}

func newLogger() *logrus.Logger {
	logger := logrus.New()

	pathMap := lfshook.PathMap{}

	err := touch("dcr_client_info.log")
	if err != nil {
		logger.Info("Failed to open dcr_client_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = "dcr_client_info.log"
	}

	err = touch("dcr_client_debug.log")
	if err != nil {
		logger.Info("Failed to open dcr_client_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = "dcr_client_debug.log"
	}

	if err == nil && _config.Discard {
		logger.Out = io.Discard
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))

	return logger
}

// touch creates path if needed and checks that it can be written. lfshook
// opens the file again for every entry.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	return f.Close()
}
