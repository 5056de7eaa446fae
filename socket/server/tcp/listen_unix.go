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

//go:build unix

package tcp

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

// listen opens a dual-stack listener with address reuse enabled, falling
// back to whatever single family the host offers.
func (o *srv) listen(ctx context.Context) (net.Listener, liberr.Error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var er error
			e := c.Control(func(fd uintptr) {
				er = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if e != nil {
				return e
			}
			return er
		},
	}

	lis, err := lc.Listen(ctx, "tcp", o.adr)
	if err != nil {
		return nil, ErrorListen.Error(err)
	}

	return lis, nil
}
