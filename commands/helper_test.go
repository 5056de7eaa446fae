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

// helper_test.go provides the in-memory session double the handler specs
// run against, plus small decoders for the encoded response bodies.
package commands_test

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	encmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libptl "github.com/Necromancer-Labs/embbridge/protocol"
	libssn "github.com/Necromancer-Labs/embbridge/session"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeResp struct {
	ok   bool
	err  string
	data []byte
}

type fakeData struct {
	seq   uint64
	chunk []byte
	done  bool
}

// fakeSession satisfies the session ABI in memory: emitted responses and
// data frames are captured, inbound frames come from a queue.
type fakeSession struct {
	cwd string
	in  [][]byte
	rsp []fakeResp
	dat []fakeData
}

func newFakeSession(cwd string) *fakeSession {
	return &fakeSession{cwd: cwd}
}

func (o *fakeSession) ID() string            { return "test-session" }
func (o *fakeSession) Mode() libssn.Mode     { return libssn.ModeBind }
func (o *fakeSession) Logger() *logrus.Entry { return logrus.NewEntry(logrus.StandardLogger()) }
func (o *fakeSession) Cwd() string           { return o.cwd }
func (o *fakeSession) SetCwd(p string)       { o.cwd = p }

func (o *fakeSession) ResolvePath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}

	if strings.HasSuffix(o.cwd, "/") {
		return o.cwd + p
	}

	return o.cwd + "/" + p
}

func (o *fakeSession) SendResponse(_ uint64, data []byte) liberr.Error {
	o.rsp = append(o.rsp, fakeResp{ok: true, data: append([]byte{}, data...)})
	return nil
}

func (o *fakeSession) SendError(_ uint64, msg string) liberr.Error {
	o.rsp = append(o.rsp, fakeResp{ok: false, err: msg})
	return nil
}

func (o *fakeSession) SendData(_ uint64, seq uint64, chunk []byte, done bool) liberr.Error {
	o.dat = append(o.dat, fakeData{seq: seq, chunk: append([]byte{}, chunk...), done: done})
	return nil
}

func (o *fakeSession) RecvFrame() ([]byte, liberr.Error) {
	if len(o.in) == 0 {
		return nil, libptl.ErrorFrameRead.Error(nil)
	}

	msg := o.in[0]
	o.in = o.in[1:]
	return msg, nil
}

func (o *fakeSession) Run(_ context.Context) liberr.Error {
	return nil
}

// queueData enqueues an encoded data envelope for RecvFrame.
func (o *fakeSession) queueData(id, seq uint64, chunk []byte, done bool) {
	m := encmsg.NewWriter(64 + len(chunk))

	m.PutMapHeader(5)

	m.PutString("type")
	m.PutString("data")

	m.PutString("id")
	m.PutUint(id)

	m.PutString("seq")
	m.PutUint(seq)

	m.PutString("data")
	m.PutBin(chunk)

	m.PutString("done")
	m.PutBool(done)

	o.in = append(o.in, m.Bytes())
}

// lastResp returns the single captured response, asserting there is
// exactly one.
func (o *fakeSession) lastResp() fakeResp {
	Expect(o.rsp).To(HaveLen(1))
	return o.rsp[0]
}

// encArgs encodes an args map from the given writer function.
func encArgs(fn func(m encmsg.Writer)) []byte {
	m := encmsg.NewWriter(128)
	fn(m)
	return m.Bytes()
}

// argsPath encodes the common {path: p} args map.
func argsPath(p string) []byte {
	return encArgs(func(m encmsg.Writer) {
		m.PutMapHeader(1)
		m.PutString("path")
		m.PutString(p)
	})
}

// dataUint extracts an unsigned value from an encoded data map.
func dataUint(data []byte, key string) uint64 {
	v, ok := libssn.GetUintArg(data, key)
	Expect(ok).To(BeTrue())
	return v
}

// dataStr extracts a string value from an encoded data map.
func dataStr(data []byte, key string) string {
	v, ok := libssn.GetStringArg(data, key)
	Expect(ok).To(BeTrue())
	return v
}

// dataBin extracts the binary value under key from an encoded data map.
func dataBin(data []byte, key string) []byte {
	r := encmsg.NewReader(data)

	cnt, err := r.GetMapHeader()
	Expect(err).To(BeNil())

	for i := uint32(0); i < cnt; i++ {
		name, e := r.GetString()
		Expect(e).To(BeNil())

		if string(name) == key {
			v, er := r.GetBin()
			Expect(er).To(BeNil())
			return v
		}

		Expect(r.Skip()).To(BeNil())
	}

	Fail("key not found in data map: " + key)
	return nil
}
