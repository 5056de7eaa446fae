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

package session

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libptl "github.com/Necromancer-Labs/embbridge/protocol"
)

type ssn struct {
	con io.ReadWriter
	mod Mode
	tbl Table
	cwd string
	sid string
	log *logrus.Entry
}

func (o *ssn) ID() string {
	return o.sid
}

func (o *ssn) Mode() Mode {
	return o.mod
}

func (o *ssn) Logger() *logrus.Entry {
	return o.log
}

func (o *ssn) Cwd() string {
	return o.cwd
}

func (o *ssn) SetCwd(p string) {
	o.cwd = p
}

func (o *ssn) ResolvePath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}

	if strings.HasSuffix(o.cwd, "/") {
		return o.cwd + p
	}

	return o.cwd + "/" + p
}

func (o *ssn) SendResponse(id uint64, data []byte) liberr.Error {
	return libptl.SendResponse(o.con, id, true, data, "")
}

func (o *ssn) SendError(id uint64, msg string) liberr.Error {
	return libptl.SendError(o.con, id, msg)
}

func (o *ssn) SendData(id uint64, seq uint64, chunk []byte, done bool) liberr.Error {
	return libptl.SendData(o.con, id, seq, chunk, done)
}

func (o *ssn) RecvFrame() ([]byte, liberr.Error) {
	return libptl.RecvFrame(o.con)
}

func (o *ssn) Run(ctx context.Context) liberr.Error {
	if err := o.handshake(); err != nil {
		o.log.WithError(err).Warning("handshake failed")
		return err
	}

	o.log.WithField("cwd", o.cwd).Info("session started")

	for ctx.Err() == nil {
		msg, err := o.RecvFrame()
		if err != nil {
			o.log.WithError(err).Debug("connection closed or read error")
			o.log.Info("session ended")
			return nil
		}

		if err = o.dispatch(msg); err != nil {
			// terminal write failure: the next read surfaces the close
			o.log.WithError(err).Warning("cannot handle request")
		}
	}

	o.log.Info("session ended")
	return nil
}

// handshake runs the role given by the mode. In reverse mode the agent
// speaks first and waits for the acknowledgement; in bind mode the roles
// are swapped. The peer frame must be a valid hello / hello_ack with a
// matching version.
func (o *ssn) handshake() liberr.Error {
	if o.mod == ModeReverse {
		if err := libptl.SendHello(o.con, true); err != nil {
			return ErrorHandshake.Error(err)
		}

		return o.recvHandshake()
	}

	if err := o.recvHandshake(); err != nil {
		return err
	}

	if err := libptl.SendHelloAck(o.con, true); err != nil {
		return ErrorHandshake.Error(err)
	}

	return nil
}

func (o *ssn) recvHandshake() liberr.Error {
	msg, err := o.RecvFrame()
	if err != nil {
		return ErrorHandshake.Error(err)
	}

	hs, err := libptl.ParseHandshake(msg)
	if err != nil {
		return ErrorHandshake.Error(err)
	}

	o.log.WithFields(logrus.Fields{
		"peer_type":    hs.Type,
		"peer_version": hs.Version,
	}).Debug("handshake complete")

	return nil
}

// dispatch parses one request envelope and routes it to its handler.
// Protocol-level failures answer the peer with an error response carrying
// whatever id could be recovered; the session stays in its request loop.
func (o *ssn) dispatch(msg []byte) liberr.Error {
	req, err := libptl.ParseRequest(msg)
	if err != nil {
		return o.SendError(req.ID, wireMessage(err))
	}

	log := o.log.WithFields(logrus.Fields{
		"id":  req.ID,
		"cmd": req.Cmd,
	})

	fct := o.tbl.Lookup(req.Cmd)
	if fct == nil {
		log.Debug("unknown command")
		return o.SendError(req.ID, "unknown command")
	}

	log.Debug("request")

	if er := fct(o, req.ID, req.Args); er != nil {
		return ErrorHandlerIO.Error(er)
	}

	return nil
}

// wireMessage maps a protocol parse error to the string the peer sees.
func wireMessage(err liberr.Error) string {
	switch {
	case err.HasCode(libptl.ErrorBadType):
		return "expected request"
	case err.HasCode(libptl.ErrorMissingCommand):
		return "missing command"
	case err.HasCode(libptl.ErrorUnknownField):
		return "unknown field"
	}

	return "invalid message format"
}
