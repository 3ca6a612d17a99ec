package net

import (
	"bufio"
	"errors"
	"strings"
)

const (
	recordSep byte = 0x1E
	endOfTx   byte = 0x04

	// maxFrameSize bounds the body of a single frame.
	maxFrameSize = 1 << 20
)

var (
	errBadFrame      = errors.New("message contains a frame terminator")
	errFrameTooLarge = errors.New("frame exceeds maximum size")
)

// writeRequest writes a request frame.
func writeRequest(w *bufio.Writer, role Role, msg string, closeAfter bool) error {
	if strings.IndexByte(msg, recordSep) >= 0 || strings.IndexByte(msg, endOfTx) >= 0 {
		return errBadFrame
	}

	term := recordSep
	if closeAfter {
		term = endOfTx
	}

	if err := w.WriteByte(byte(role)); err != nil {
		return err
	}
	if err := w.WriteByte(':'); err != nil {
		return err
	}
	if _, err := w.WriteString(msg); err != nil {
		return err
	}
	if err := w.WriteByte(term); err != nil {
		return err
	}
	return w.Flush()
}

// writeReply writes a reply frame. It does not flush.
func writeReply(w *bufio.Writer, reply string) error {
	reply = strings.Map(func(r rune) rune {
		if r == rune(recordSep) || r == rune(endOfTx) {
			return -1
		}
		return r
	}, reply)

	if _, err := w.WriteString(reply); err != nil {
		return err
	}
	return w.WriteByte(recordSep)
}

// readFrame reads up to and including the next terminator and returns the
// body and the terminator. Bodies longer than maxFrameSize are rejected.
func readFrame(r *bufio.Reader) (string, byte, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", 0, err
		}
		if b == recordSep || b == endOfTx {
			return sb.String(), b, nil
		}
		if sb.Len() >= maxFrameSize {
			return "", 0, errFrameTooLarge
		}
		sb.WriteByte(b)
	}
}

// readRequest reads a request frame and splits off the role prefix. A frame
// without a valid prefix is returned with RoleUnknown and the raw body.
func readRequest(r *bufio.Reader) (Role, string, bool, error) {
	body, term, err := readFrame(r)
	if err != nil {
		return RoleUnknown, "", false, err
	}

	closeAfter := term == endOfTx

	if len(body) < 2 || body[1] != ':' {
		return RoleUnknown, body, closeAfter, nil
	}

	switch Role(body[0]) {
	case RoleMain, RoleNode:
		return Role(body[0]), body[2:], closeAfter, nil
	default:
		return RoleUnknown, body, closeAfter, nil
	}
}

// readReply reads a reply frame.
func readReply(r *bufio.Reader) (string, error) {
	body, _, err := readFrame(r)
	return body, err
}
