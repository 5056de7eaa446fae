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
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	libsck "github.com/Necromancer-Labs/embbridge/socket"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

type srv struct {
	adr string
	upd libsck.UpdateConn
	hdl libsck.HandlerFunc

	stt atomic.Bool
	run atomic.Bool
	gon atomic.Bool
	cnt atomic.Int64

	mux sync.Mutex
	lis net.Listener
	don chan struct{}

	log atomic.Pointer[func() *logrus.Entry]
}

func (o *srv) RegisterLogger(fct func() *logrus.Entry) {
	if fct != nil {
		o.log.Store(&fct)
	}
}

func (o *srv) entry() *logrus.Entry {
	if f := o.log.Load(); f != nil {
		if e := (*f)(); e != nil {
			return e
		}
	}

	return logrus.NewEntry(logrus.StandardLogger())
}

func (o *srv) IsRunning() bool {
	return o.run.Load()
}

func (o *srv) IsGone() bool {
	return o.gon.Load()
}

func (o *srv) OpenConnections() int64 {
	return o.cnt.Load()
}

func (o *srv) Done() <-chan struct{} {
	return o.don
}

func (o *srv) Close() error {
	o.mux.Lock()
	defer o.mux.Unlock()

	if o.lis != nil {
		return o.lis.Close()
	}

	return nil
}

func (o *srv) Listen(ctx context.Context) liberr.Error {
	if !o.stt.CompareAndSwap(false, true) {
		return ErrorAlreadyRunning.Error(nil)
	}

	lis, err := o.listen(ctx)
	if err != nil {
		o.stt.Store(false)
		return err
	}

	o.mux.Lock()
	o.lis = lis
	o.mux.Unlock()

	o.run.Store(true)
	o.gon.Store(false)

	defer func() {
		o.run.Store(false)
		_ = lis.Close()
	}()

	// cancellation closes the listener so the blocking Accept returns
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			_ = lis.Close()
		case <-stop:
		}
	}()

	var wg sync.WaitGroup

	o.entry().WithField("address", o.adr).Info("listening")

	for {
		con, er := lis.Accept()

		if er != nil {
			if ctx.Err() != nil || errors.Is(er, net.ErrClosed) {
				break
			}

			o.entry().WithError(er).Warning("accept failed, continuing")
			continue
		}

		o.upd(con)
		o.cnt.Add(1)

		wg.Add(1)
		go func(c net.Conn) {
			defer func() {
				_ = c.Close()
				o.cnt.Add(-1)
				wg.Done()
			}()

			o.hdl(ctx, c)
		}(con)
	}

	o.run.Store(false)

	wg.Wait()
	o.gon.Store(true)
	close(o.don)

	return nil
}
