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

// helper_test.go provides the controller-side protocol helpers shared by
// the session specs: request encoding, response decoding, handshake
// driving over a net.Pipe.
package session_test

import (
	"bytes"
	"io"

	encmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libptl "github.com/Necromancer-Labs/embbridge/protocol"

	. "github.com/onsi/gomega"
)

// resp is a decoded resp envelope as seen by the controller.
type resp struct {
	id   uint64
	ok   bool
	err  string
	data []byte // raw encoded data value, nil when absent
}

// sendReq encodes and frames a req envelope. args may be nil for an empty
// args map.
func sendReq(w io.Writer, id uint64, cmd string, args func(m encmsg.Writer)) {
	m := encmsg.NewWriter(256)

	m.PutMapHeader(4)

	m.PutString("type")
	m.PutString("req")

	m.PutString("id")
	m.PutUint(id)

	m.PutString("cmd")
	m.PutString(cmd)

	m.PutString("args")
	if args != nil {
		args(m)
	} else {
		m.PutMapHeader(0)
	}

	Expect(libptl.SendFrame(w, m.Bytes())).To(BeNil())
}

// readResp reads one frame and decodes it as a resp envelope.
func readResp(r io.Reader) resp {
	payload, err := libptl.RecvFrame(r)
	Expect(err).To(BeNil())

	var out resp

	rd := encmsg.NewReader(payload)

	cnt, e := rd.GetMapHeader()
	Expect(e).To(BeNil())

	for i := uint32(0); i < cnt; i++ {
		key, er := rd.GetString()
		Expect(er).To(BeNil())

		switch {
		case bytes.Equal(key, []byte("type")):
			v, err2 := rd.GetString()
			Expect(err2).To(BeNil())
			Expect(string(v)).To(Equal("resp"))

		case bytes.Equal(key, []byte("id")):
			v, err2 := rd.GetUint()
			Expect(err2).To(BeNil())
			out.id = v

		case bytes.Equal(key, []byte("ok")):
			v, err2 := rd.GetBool()
			Expect(err2).To(BeNil())
			out.ok = v

		case bytes.Equal(key, []byte("error")):
			v, err2 := rd.GetString()
			Expect(err2).To(BeNil())
			out.err = string(v)

		case bytes.Equal(key, []byte("data")):
			start := rd.Pos()
			Expect(rd.Skip()).To(BeNil())
			out.data = append([]byte{}, payload[start:rd.Pos()]...)
		}
	}

	return out
}

// dataString extracts a string value from an encoded data map.
func dataString(data []byte, key string) string {
	rd := encmsg.NewReader(data)

	cnt, e := rd.GetMapHeader()
	Expect(e).To(BeNil())

	for i := uint32(0); i < cnt; i++ {
		name, er := rd.GetString()
		Expect(er).To(BeNil())

		if string(name) == key {
			v, err2 := rd.GetString()
			Expect(err2).To(BeNil())
			return string(v)
		}

		Expect(rd.Skip()).To(BeNil())
	}

	return ""
}

// driveHandshakeReverse plays the controller side against a reverse-mode
// agent: read its hello, answer hello_ack.
func driveHandshakeReverse(rw io.ReadWriter) {
	payload, err := libptl.RecvFrame(rw)
	Expect(err).To(BeNil())

	hs, err := libptl.ParseHandshake(payload)
	Expect(err).To(BeNil())
	Expect(hs.Type).To(Equal(libptl.TypeHello))
	Expect(hs.Agent).To(BeTrue())

	Expect(libptl.SendHelloAck(rw, false)).To(BeNil())
}

// driveHandshakeBind plays the controller side against a bind-mode agent:
// send hello, read its hello_ack.
func driveHandshakeBind(rw io.ReadWriter) {
	Expect(libptl.SendHello(rw, false)).To(BeNil())

	payload, err := libptl.RecvFrame(rw)
	Expect(err).To(BeNil())

	hs, err := libptl.ParseHandshake(payload)
	Expect(err).To(BeNil())
	Expect(hs.Type).To(Equal(libptl.TypeHelloAck))
	Expect(hs.Agent).To(BeTrue())
}
