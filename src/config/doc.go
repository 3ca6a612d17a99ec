// Package config defines the configuration for a main node.
//
// Regardless of how a main node is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object defined
// in this package. On top of these options, a main node relies on a data
// directory, defined by Config.DataDir, where it expects to find:
//
//	peers.json  // a JSON file listing the name and address of every main node.
//	graph.yaml  // the graph definition shared by all main nodes (cf. Config.GraphFile).
//	dcr.toml    // (optional) values for any of the options below.
package config
