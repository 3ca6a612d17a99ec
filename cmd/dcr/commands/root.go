package commands

import (
	"github.com/mosaicnetworks/dcr/src/config"
	"github.com/spf13/cobra"
)

var (
	_config = config.NewDefaultConfig()
)

//RootCmd is the root command for a DCR main node
var RootCmd = &cobra.Command{
	Use:              "dcr",
	Short:            "distributed DCR graph main node",
	TraverseChildren: true,
}
