// Package peers defines the concept of a main node peer and implements
// functions to manage collections of peers.
//
// Every main node owns a partition of the DCR graph and is known to the others
// by a unique name, which is the name used to tag remote events in graph
// definitions, and by a network address where it can be reached.
//
// Upon starting up, a main node expects to find a peers.json file in its data
// directory, listing every main node of the deployment, itself included:
//
//  [
//    {"Name": "main1", "NetAddr": "127.0.0.1:1337"},
//    {"Name": "main2", "NetAddr": "127.0.0.1:1338"}
//  ]
package peers
