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

package agent

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libssn "github.com/Necromancer-Labs/embbridge/session"
	libsck "github.com/Necromancer-Labs/embbridge/socket"
	sckclt "github.com/Necromancer-Labs/embbridge/socket/client/tcp"
	sckcfg "github.com/Necromancer-Labs/embbridge/socket/config"
	scksrv "github.com/Necromancer-Labs/embbridge/socket/server/tcp"
)

func (o *agt) Run(ctx context.Context) liberr.Error {
	// SIGINT / SIGTERM stop the accept loop; SIGPIPE is ignored so a
	// vanished peer surfaces as a write error instead of killing us.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if o.cfg.Mode == ModeConnect {
		return o.runReverse(ctx)
	}

	return o.runBind(ctx)
}

// runReverse dials the controller once and serves that single session.
func (o *agt) runReverse(ctx context.Context) liberr.Error {
	clt, err := sckclt.New(nil, sckcfg.Client{
		Address: o.cfg.Remote,
	})
	if err != nil {
		return ErrorConnect.Error(err)
	}

	o.log.WithField("remote", o.cfg.Remote).Info("connecting")

	con, err := clt.Dial(ctx)
	if err != nil {
		return ErrorConnect.Error(err)
	}

	defer func() {
		_ = con.Close()
	}()

	// cancellation closes the socket so a blocked read returns
	go func() {
		<-ctx.Done()
		_ = con.Close()
	}()

	s := libssn.New(con, libssn.ModeReverse, o.tbl, o.log)
	return s.Run(ctx)
}

// runBind listens and serves one session per accepted controller, each in
// its own goroutine with fully private state.
func (o *agt) runBind(ctx context.Context) liberr.Error {
	srv, err := scksrv.New(nil, o.handler, sckcfg.Server{
		Address: fmt.Sprintf(":%d", o.cfg.Port),
	})
	if err != nil {
		return ErrorListen.Error(err)
	}

	srv.RegisterLogger(func() *logrus.Entry {
		return o.log
	})

	return srv.Listen(ctx)
}

func (o *agt) handler(ctx context.Context, c libsck.Context) {
	s := libssn.New(c, libssn.ModeBind, o.tbl, o.log)

	// shutdown stops the accept loop only; a live session keeps serving
	// until its socket closes
	if err := s.Run(context.WithoutCancel(ctx)); err != nil {
		o.log.WithError(err).Debug("session terminated")
	}
}
