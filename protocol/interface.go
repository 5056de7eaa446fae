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

// Package protocol implements the embbridge wire protocol: length-prefixed
// framing over a byte stream and the envelope layer on top of it.
//
// Every message on the wire is a 4-byte big-endian length followed by that
// many bytes of MessagePack payload. Payloads decode to a flat map whose
// "type" key selects the envelope shape: hello, hello_ack, req, resp, data.
package protocol

// Version is the protocol version carried in hello / hello_ack envelopes.
const Version uint64 = 1

const (
	// MaxMessageSize is the hard cap on a single frame payload. A length
	// prefix above this value terminates the session before any
	// allocation happens.
	MaxMessageSize = 16 * 1024 * 1024

	// frame length prefix size on the wire
	frameHeadLen = 4
)

// Envelope type identifiers.
const (
	TypeHello    = "hello"
	TypeHelloAck = "hello_ack"
	TypeReq      = "req"
	TypeResp     = "resp"
	TypeData     = "data"
)

// Envelope field keys.
const (
	KeyType    = "type"
	KeyVersion = "version"
	KeyAgent   = "agent"
	KeyID      = "id"
	KeyCmd     = "cmd"
	KeyArgs    = "args"
	KeyOk      = "ok"
	KeyData    = "data"
	KeyError   = "error"
	KeySeq     = "seq"
	KeyDone    = "done"
)

// Request is a decoded req envelope. Args borrows from the frame payload
// and must not be retained past the handler's return.
type Request struct {
	ID   uint64
	Cmd  string
	Args []byte
}

// Handshake is a decoded hello or hello_ack envelope.
type Handshake struct {
	Type    string
	Version uint64
	Agent   bool
}

// Data is a decoded data envelope. Chunk borrows from the frame payload.
type Data struct {
	ID    uint64
	Seq   uint64
	Chunk []byte
	Done  bool
}
