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

package tcp

import (
	"context"
	"net"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libsck "github.com/Necromancer-Labs/embbridge/socket"
)

type clt struct {
	adr string
	upd libsck.UpdateConn
}

func (o *clt) Dial(ctx context.Context) (net.Conn, liberr.Error) {
	host, port, err := net.SplitHostPort(o.adr)
	if err != nil {
		return nil, ErrorInvalidAddress.Error(err)
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, ErrorResolve.Error(err)
	}

	var (
		con net.Conn
		dlr net.Dialer
		lst error
	)

	// try each resolved address until one connect succeeds
	for _, a := range addrs {
		con, err = dlr.DialContext(ctx, "tcp", net.JoinHostPort(a, port))
		if err == nil {
			o.upd(con)
			return con, nil
		}

		lst = err
	}

	return nil, ErrorUnreachable.Error(lst)
}
