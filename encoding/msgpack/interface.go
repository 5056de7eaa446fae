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

// Package msgpack implements the MessagePack subset used by the embbridge
// wire protocol: nil, booleans, unsigned integers, strings, binary blobs,
// maps and arrays.
//
// The writer always emits the most compact tag able to hold a value, so the
// output is byte-identical to what the reference agent produces. The reader
// consumes a borrowed byte slice with a cursor; string and binary reads
// return sub-slices of the source buffer without allocating. Every read is
// bounds-checked and a malformed or unsupported tag yields a decode error,
// never a panic.
//
// Floats, signed integers and ext types are not part of the protocol and
// are rejected. Container skipping is limited to flat maps and arrays of
// scalars; deeper nesting aborts the scan.
package msgpack

import (
	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

// Format markers of the supported subset.
const (
	TagFixMap   byte = 0x80
	TagFixArray byte = 0x90
	TagFixStr   byte = 0xa0
	TagNil      byte = 0xc0
	TagFalse    byte = 0xc2
	TagTrue     byte = 0xc3
	TagBin8     byte = 0xc4
	TagBin16    byte = 0xc5
	TagBin32    byte = 0xc6
	TagUint8    byte = 0xcc
	TagUint16   byte = 0xcd
	TagUint32   byte = 0xce
	TagUint64   byte = 0xcf
	TagStr8     byte = 0xd9
	TagStr16    byte = 0xda
	TagStr32    byte = 0xdb
	TagArray16  byte = 0xdc
	TagArray32  byte = 0xdd
	TagMap16    byte = 0xde
	TagMap32    byte = 0xdf
)

// Writer is a growable buffer with MessagePack emitters. It never fails:
// the buffer grows by amortized doubling as values are appended.
type Writer interface {
	// Bytes returns the encoded buffer. The slice stays valid until the
	// next write or Reset.
	Bytes() []byte
	// Len returns the current encoded length.
	Len() int
	// Reset truncates the buffer for reuse, keeping its capacity.
	Reset()

	// Raw primitive emitters.
	PutByte(v byte)
	PutU16BE(v uint16)
	PutU32BE(v uint32)
	PutRaw(p []byte)

	// Typed emitters.
	PutNil()
	PutBool(v bool)
	PutUint(v uint64)
	PutString(s string)
	PutBin(p []byte)
	PutMapHeader(count int)
	PutArrayHeader(count int)
}

// Reader decodes values from a borrowed byte slice. The slice is never
// modified nor retained past the caller's own lifetime; string and binary
// reads alias into it.
type Reader interface {
	// Pos returns the current cursor offset into the source slice.
	Pos() int
	// Remain returns the number of bytes left after the cursor.
	Remain() int

	GetMapHeader() (uint32, liberr.Error)
	GetArrayHeader() (uint32, liberr.Error)
	GetUint() (uint64, liberr.Error)
	GetBool() (bool, liberr.Error)
	// GetString returns a sub-slice of the source buffer.
	GetString() ([]byte, liberr.Error)
	// GetBin returns a sub-slice of the source buffer.
	GetBin() ([]byte, liberr.Error)

	// Skip advances over exactly one value without interpreting it. Flat
	// maps and arrays of scalars are skipped; nested containers abort.
	Skip() liberr.Error
}

// NewWriter returns a Writer pre-allocated with the given capacity hint.
func NewWriter(hint int) Writer {
	if hint < 1 {
		hint = 64
	}

	return &wrt{
		b: make([]byte, 0, hint),
	}
}

// NewReader returns a Reader over the given borrowed slice.
func NewReader(p []byte) Reader {
	return &rdr{
		b: p,
		p: 0,
	}
}
