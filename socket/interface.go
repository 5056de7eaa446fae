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

// Package socket defines the contracts shared by the stream socket servers
// and clients of this module: the per-connection handler, the connection
// update hook and common defaults.
package socket

import (
	"context"
	"net"
)

const (
	// DefaultBufferSize is the nominal session read buffer size. Sessions
	// read each frame with exact-length reads and do not use it.
	DefaultBufferSize = 8 * 1024

	// DefaultListenBacklog documents the minimum backlog expected from
	// the listener; the Go runtime configures at least this much.
	DefaultListenBacklog = 5
)

// Context is the surface a handler gets for one accepted connection.
type Context interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// HandlerFunc is called once per accepted connection, in its own
// goroutine. The connection is closed when the handler returns.
type HandlerFunc func(ctx context.Context, c Context)

// UpdateConn customizes a freshly dialed or accepted connection before it
// is handed to a handler (socket options, deadlines, buffers).
type UpdateConn func(c net.Conn)

// ConnNoDelay disables Nagle's algorithm on TCP connections, the default
// tuning for the small-message request/response traffic of this module.
func ConnNoDelay(c net.Conn) {
	if t, ok := c.(*net.TCPConn); ok {
		_ = t.SetNoDelay(true)
	}
}
