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

package protocol

import (
	"bytes"
	"io"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

// SendHello writes a hello envelope: {type, version, agent}.
func SendHello(w io.Writer, agent bool) liberr.Error {
	return sendHandshake(w, TypeHello, agent)
}

// SendHelloAck writes a hello_ack envelope, same shape as hello.
func SendHelloAck(w io.Writer, agent bool) liberr.Error {
	return sendHandshake(w, TypeHelloAck, agent)
}

func sendHandshake(w io.Writer, typ string, agent bool) liberr.Error {
	m := libmsg.NewWriter(64)

	m.PutMapHeader(3)

	m.PutString(KeyType)
	m.PutString(typ)

	m.PutString(KeyVersion)
	m.PutUint(Version)

	m.PutString(KeyAgent)
	m.PutBool(agent)

	return SendFrame(w, m.Bytes())
}

// SendResponse writes a resp envelope. When ok is true the data argument
// must hold a pre-encoded map value which is appended raw under the "data"
// key; when ok is false the error string is carried under "error".
func SendResponse(w io.Writer, id uint64, ok bool, data []byte, errMsg string) liberr.Error {
	m := libmsg.NewWriter(128 + len(data))

	fields := 3 // type, id, ok
	if ok && data != nil {
		fields++
	}
	if !ok && errMsg != "" {
		fields++
	}

	m.PutMapHeader(fields)

	m.PutString(KeyType)
	m.PutString(TypeResp)

	m.PutString(KeyID)
	m.PutUint(id)

	m.PutString(KeyOk)
	m.PutBool(ok)

	if ok && data != nil {
		m.PutString(KeyData)
		m.PutRaw(data)
	}

	if !ok && errMsg != "" {
		m.PutString(KeyError)
		m.PutString(errMsg)
	}

	return SendFrame(w, m.Bytes())
}

// SendError writes a resp envelope carrying ok=false and the given error
// string.
func SendError(w io.Writer, id uint64, errMsg string) liberr.Error {
	return SendResponse(w, id, false, nil, errMsg)
}

// SendData writes a data envelope: {type, id, seq, data, done}.
func SendData(w io.Writer, id uint64, seq uint64, chunk []byte, done bool) liberr.Error {
	m := libmsg.NewWriter(128 + len(chunk))

	m.PutMapHeader(5)

	m.PutString(KeyType)
	m.PutString(TypeData)

	m.PutString(KeyID)
	m.PutUint(id)

	m.PutString(KeySeq)
	m.PutUint(seq)

	m.PutString(KeyData)
	m.PutBin(chunk)

	m.PutString(KeyDone)
	m.PutBool(done)

	return SendFrame(w, m.Bytes())
}

// ParseHandshake decodes a hello or hello_ack payload and validates type
// and version. Unknown fields are skipped.
func ParseHandshake(payload []byte) (Handshake, liberr.Error) {
	var (
		hs Handshake
		r  = libmsg.NewReader(payload)
	)

	cnt, err := r.GetMapHeader()
	if err != nil {
		return hs, ErrorBadEnvelope.Error(err)
	}

	for i := uint32(0); i < cnt; i++ {
		key, e := r.GetString()
		if e != nil {
			return hs, ErrorBadEnvelope.Error(e)
		}

		switch {
		case bytes.Equal(key, []byte(KeyType)):
			v, er := r.GetString()
			if er != nil {
				return hs, ErrorBadEnvelope.Error(er)
			}
			hs.Type = string(v)

		case bytes.Equal(key, []byte(KeyVersion)):
			v, er := r.GetUint()
			if er != nil {
				return hs, ErrorBadEnvelope.Error(er)
			}
			hs.Version = v

		case bytes.Equal(key, []byte(KeyAgent)):
			v, er := r.GetBool()
			if er != nil {
				return hs, ErrorBadEnvelope.Error(er)
			}
			hs.Agent = v

		default:
			if er := r.Skip(); er != nil {
				return hs, ErrorBadEnvelope.Error(er)
			}
		}
	}

	if hs.Type != TypeHello && hs.Type != TypeHelloAck {
		return hs, ErrorBadType.Error(nil)
	}

	if hs.Version != Version {
		return hs, ErrorBadVersion.Error(nil)
	}

	return hs, nil
}

// ParseRequest decodes a req payload. The returned Args slice borrows from
// the payload. On failure the Request still carries whatever id was parsed
// so the caller can address its error response.
func ParseRequest(payload []byte) (Request, liberr.Error) {
	var (
		req Request
		typ string
		r   = libmsg.NewReader(payload)
	)

	cnt, err := r.GetMapHeader()
	if err != nil {
		return req, ErrorBadEnvelope.Error(err)
	}

	for i := uint32(0); i < cnt; i++ {
		key, e := r.GetString()
		if e != nil {
			return req, ErrorBadEnvelope.Error(e)
		}

		switch {
		case bytes.Equal(key, []byte(KeyType)):
			v, er := r.GetString()
			if er != nil {
				return req, ErrorBadEnvelope.Error(er)
			}
			typ = string(v)

		case bytes.Equal(key, []byte(KeyID)):
			v, er := r.GetUint()
			if er != nil {
				return req, ErrorBadEnvelope.Error(er)
			}
			req.ID = v

		case bytes.Equal(key, []byte(KeyCmd)):
			v, er := r.GetString()
			if er != nil {
				return req, ErrorBadEnvelope.Error(er)
			}
			req.Cmd = string(v)

		case bytes.Equal(key, []byte(KeyArgs)):
			start := r.Pos()
			if er := r.Skip(); er != nil {
				return req, ErrorBadEnvelope.Error(er)
			}
			req.Args = payload[start:r.Pos()]

		default:
			return req, ErrorUnknownField.Error(nil)
		}
	}

	if typ != TypeReq {
		return req, ErrorBadType.Error(nil)
	}

	if req.Cmd == "" {
		return req, ErrorMissingCommand.Error(nil)
	}

	return req, nil
}

// ParseData decodes a data payload: the binary chunk under "data" and the
// "done" flag are extracted, unknown keys are skipped. The returned Chunk
// borrows from the payload.
func ParseData(payload []byte) (Data, liberr.Error) {
	var (
		d Data
		r = libmsg.NewReader(payload)
	)

	cnt, err := r.GetMapHeader()
	if err != nil {
		return d, ErrorBadEnvelope.Error(err)
	}

	for i := uint32(0); i < cnt; i++ {
		key, e := r.GetString()
		if e != nil {
			return d, ErrorBadEnvelope.Error(e)
		}

		switch {
		case bytes.Equal(key, []byte(KeyID)):
			v, er := r.GetUint()
			if er != nil {
				return d, ErrorBadEnvelope.Error(er)
			}
			d.ID = v

		case bytes.Equal(key, []byte(KeySeq)):
			v, er := r.GetUint()
			if er != nil {
				return d, ErrorBadEnvelope.Error(er)
			}
			d.Seq = v

		case bytes.Equal(key, []byte(KeyData)):
			v, er := r.GetBin()
			if er != nil {
				return d, ErrorBadEnvelope.Error(er)
			}
			d.Chunk = v

		case bytes.Equal(key, []byte(KeyDone)):
			v, er := r.GetBool()
			if er != nil {
				return d, ErrorBadEnvelope.Error(er)
			}
			d.Done = v

		default:
			if er := r.Skip(); er != nil {
				return d, ErrorBadEnvelope.Error(er)
			}
		}
	}

	return d, nil
}
