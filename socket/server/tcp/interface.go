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

// Package tcp implements the listening side of the agent: a dual-stack TCP
// accept loop running one handler goroutine per accepted connection.
//
// The server is bound to a context: cancelling it closes the listener,
// stops the accept loop and lets live connections drain. Each accepted
// connection is tuned through the registered update hook before its
// handler starts.
package tcp

import (
	"context"

	"github.com/sirupsen/logrus"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libsck "github.com/Necromancer-Labs/embbridge/socket"
	sckcfg "github.com/Necromancer-Labs/embbridge/socket/config"
)

// ServerTcp is one listening endpoint.
type ServerTcp interface {
	// Listen opens the listener and blocks in the accept loop until the
	// context is cancelled or the listener fails.
	Listen(ctx context.Context) liberr.Error

	// Close closes the listener; the accept loop exits on its next
	// iteration. Live connections are not interrupted.
	Close() error

	// IsRunning reports whether the accept loop is active.
	IsRunning() bool

	// IsGone reports whether the server has fully stopped: no accept
	// loop and no remaining connection handlers.
	IsGone() bool

	// OpenConnections returns the number of currently served connections.
	OpenConnections() int64

	// Done is closed once the server is gone.
	Done() <-chan struct{}

	// RegisterLogger installs the log entry provider used by the accept
	// loop and connection bookkeeping.
	RegisterLogger(fct func() *logrus.Entry)
}

// New creates a server from the given update hook, handler and
// configuration. A nil update hook defaults to socket.ConnNoDelay.
func New(upd libsck.UpdateConn, hdl libsck.HandlerFunc, cfg sckcfg.Server) (ServerTcp, liberr.Error) {
	if hdl == nil {
		return nil, ErrorMissingHandler.Error(nil)
	}

	if err := cfg.Validate(); err != nil {
		return nil, ErrorInvalidAddress.Error(err)
	}

	if upd == nil {
		upd = libsck.ConnNoDelay
	}

	s := &srv{
		adr: cfg.Address,
		upd: upd,
		hdl: hdl,
		don: make(chan struct{}),
	}

	s.gon.Store(true)

	return s, nil
}
