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

package msgpack

import (
	"math"
)

type wrt struct {
	b []byte
}

func (o *wrt) Bytes() []byte {
	return o.b
}

func (o *wrt) Len() int {
	return len(o.b)
}

func (o *wrt) Reset() {
	o.b = o.b[:0]
}

func (o *wrt) PutByte(v byte) {
	o.b = append(o.b, v)
}

func (o *wrt) PutU16BE(v uint16) {
	o.b = append(o.b, byte(v>>8), byte(v))
}

func (o *wrt) PutU32BE(v uint32) {
	o.b = append(o.b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (o *wrt) PutRaw(p []byte) {
	o.b = append(o.b, p...)
}

func (o *wrt) PutNil() {
	o.PutByte(TagNil)
}

func (o *wrt) PutBool(v bool) {
	if v {
		o.PutByte(TagTrue)
	} else {
		o.PutByte(TagFalse)
	}
}

func (o *wrt) PutUint(v uint64) {
	switch {
	case v <= 0x7f:
		o.PutByte(byte(v))
	case v <= math.MaxUint8:
		o.PutByte(TagUint8)
		o.PutByte(byte(v))
	case v <= math.MaxUint16:
		o.PutByte(TagUint16)
		o.PutU16BE(uint16(v))
	case v <= math.MaxUint32:
		o.PutByte(TagUint32)
		o.PutU32BE(uint32(v))
	default:
		o.PutByte(TagUint64)
		o.PutU32BE(uint32(v >> 32))
		o.PutU32BE(uint32(v))
	}
}

func (o *wrt) PutString(s string) {
	l := len(s)

	switch {
	case l <= 31:
		o.PutByte(TagFixStr | byte(l))
	case l <= math.MaxUint8:
		o.PutByte(TagStr8)
		o.PutByte(byte(l))
	case l <= math.MaxUint16:
		o.PutByte(TagStr16)
		o.PutU16BE(uint16(l))
	default:
		o.PutByte(TagStr32)
		o.PutU32BE(uint32(l))
	}

	o.b = append(o.b, s...)
}

func (o *wrt) PutBin(p []byte) {
	l := len(p)

	switch {
	case l <= math.MaxUint8:
		o.PutByte(TagBin8)
		o.PutByte(byte(l))
	case l <= math.MaxUint16:
		o.PutByte(TagBin16)
		o.PutU16BE(uint16(l))
	default:
		o.PutByte(TagBin32)
		o.PutU32BE(uint32(l))
	}

	o.PutRaw(p)
}

func (o *wrt) PutMapHeader(count int) {
	switch {
	case count <= 15:
		o.PutByte(TagFixMap | byte(count))
	case count <= math.MaxUint16:
		o.PutByte(TagMap16)
		o.PutU16BE(uint16(count))
	default:
		o.PutByte(TagMap32)
		o.PutU32BE(uint32(count))
	}
}

func (o *wrt) PutArrayHeader(count int) {
	switch {
	case count <= 15:
		o.PutByte(TagFixArray | byte(count))
	case count <= math.MaxUint16:
		o.PutByte(TagArray16)
		o.PutU16BE(uint16(count))
	default:
		o.PutByte(TagArray32)
		o.PutU32BE(uint32(count))
	}
}
