/*
 * MIT License
 *
 * Copyright (c) 2024 Necromancer Labs
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package session drives one connection of the agent: the handshake, the
// synchronous request loop, command dispatch and the contract command
// handlers rely on to emit responses and bulk data streams.
//
// A session owns its connection, its working directory and its buffers
// exclusively. Nothing is shared between sessions, so handlers may mutate
// the cwd or block on I/O without synchronization.
package session

import (
	"context"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

// Mode tells which side initiated the connection; it is fixed for the life
// of the session and decides the handshake roles.
type Mode uint8

const (
	// ModeReverse is the dial-out mode: the agent sends hello first.
	ModeReverse Mode = iota
	// ModeBind is the accept mode: the peer sends hello first.
	ModeBind
)

func (m Mode) String() string {
	if m == ModeBind {
		return "bind"
	}

	return "reverse"
}

// HandlerFunc is the contract every command handler implements. The args
// slice borrows from the session's frame buffer and must not be retained
// past the handler's return. For the request id the handler must emit
// exactly one terminal output (a response, or a response followed by a
// data stream) through the session. The returned error reports terminal
// I/O failure only; command failures are reported to the peer with
// SendError and return nil here.
type HandlerFunc func(s Session, id uint64, args []byte) error

// Session is the surface handed to command handlers.
type Session interface {
	// ID returns the session correlation id used in log fields.
	ID() string
	// Mode returns the connection mode, fixed at creation.
	Mode() Mode
	// Logger returns the session's log entry.
	Logger() *logrus.Entry

	// Cwd returns the session working directory (absolute, canonical).
	Cwd() string
	// SetCwd replaces the session working directory. The caller passes a
	// canonical absolute path.
	SetCwd(p string)
	// ResolvePath resolves a command path argument against the cwd:
	// absolute paths pass through, relative ones are joined with a
	// single separator. No symlink or dot-dot processing happens here.
	ResolvePath(p string) string

	// SendResponse emits a success resp carrying the pre-encoded data
	// map for the given request id.
	SendResponse(id uint64, data []byte) liberr.Error
	// SendError emits a failure resp carrying the error string.
	SendError(id uint64, msg string) liberr.Error
	// SendData emits one bulk data frame.
	SendData(id uint64, seq uint64, chunk []byte, done bool) liberr.Error
	// RecvFrame reads one frame from the peer, for handlers running a
	// bulk ingest before returning.
	RecvFrame() ([]byte, liberr.Error)

	// Run performs the handshake and serves requests until the peer
	// disconnects, a fatal I/O error occurs, or the context is done.
	Run(ctx context.Context) liberr.Error
}

// New creates a session over the given stream. The initial working
// directory is the process cwd, or "/" when unavailable.
func New(con io.ReadWriter, mode Mode, tbl Table, log *logrus.Entry) Session {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}

	sid := xid.New().String()

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &ssn{
		con: con,
		mod: mode,
		tbl: tbl,
		cwd: cwd,
		sid: sid,
		log: log.WithFields(logrus.Fields{
			"session": sid,
			"mode":    mode.String(),
		}),
	}
}
