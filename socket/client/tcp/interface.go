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

// Package tcp implements the dialing side used by reverse mode: the remote
// host is resolved over both address families and each result is tried in
// order until one connect succeeds.
package tcp

import (
	"context"
	"net"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libsck "github.com/Necromancer-Labs/embbridge/socket"
	sckcfg "github.com/Necromancer-Labs/embbridge/socket/config"
)

// ClientTcp dials one connection to a configured remote.
type ClientTcp interface {
	// Dial connects to the configured address. The returned connection
	// has gone through the update hook.
	Dial(ctx context.Context) (net.Conn, liberr.Error)
}

// New creates a client from the given update hook and configuration. A nil
// update hook defaults to socket.ConnNoDelay.
func New(upd libsck.UpdateConn, cfg sckcfg.Client) (ClientTcp, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, ErrorInvalidAddress.Error(err)
	}

	if upd == nil {
		upd = libsck.ConnNoDelay
	}

	return &clt{
		adr: cfg.Address,
		upd: upd,
	}, nil
}
