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
	"encoding/binary"
	"io"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

// SendFrame writes one length-prefixed message to the stream. Payloads
// above MaxMessageSize are rejected before any byte is written.
func SendFrame(w io.Writer, payload []byte) liberr.Error {
	if len(payload) > MaxMessageSize {
		return ErrorFrameTooLarge.Error(nil)
	}

	var head [frameHeadLen]byte
	binary.BigEndian.PutUint32(head[:], uint32(len(payload)))

	if _, err := w.Write(head[:]); err != nil {
		return ErrorFrameWrite.Error(err)
	}

	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return ErrorFrameWrite.Error(err)
		}
	}

	return nil
}

// RecvFrame reads one length-prefixed message from the stream. An oversize
// length prefix fails without allocating the payload buffer. A zero length
// is legal and returns an empty, non-nil slice.
func RecvFrame(r io.Reader) ([]byte, liberr.Error) {
	var head [frameHeadLen]byte

	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, ErrorFrameRead.Error(err)
	}

	l := binary.BigEndian.Uint32(head[:])

	if l > MaxMessageSize {
		return nil, ErrorFrameTooLarge.Error(nil)
	}

	if l == 0 {
		return []byte{}, nil
	}

	payload := make([]byte, l)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, ErrorFrameRead.Error(err)
	}

	return payload, nil
}
