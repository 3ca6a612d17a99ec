// Package net implements the transports main nodes and clients use to talk to
// each other.
//
// Messages are line-oriented UTF-8 text. Every request starts with a one-byte
// role and a colon: "M:" for a main node peer, "N:" for an end-user node
// client. The body follows, and the frame ends with a terminator byte:
//
//  0x1E // record separator: keep the connection open for more requests
//  0x04 // end of transmission: close the connection after the reply
//
// A reply is the reply body followed by 0x1E.
//
// There are two implementations of the Transport interface:
//
// - Inmem: in-memory transport used for testing several main nodes in one
// process
//
// - TCP: communicating over plain TCP, with a small pool of idle connections
// per target
//
// Transports never interpret message bodies. Decoding and dispatch are the
// node package's job; the vocabulary of commands and replies lives in
// commands.go.
package net
