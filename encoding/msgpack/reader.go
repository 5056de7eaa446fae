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
	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

type rdr struct {
	b []byte
	p int
}

func (o *rdr) Pos() int {
	return o.p
}

func (o *rdr) Remain() int {
	return len(o.b) - o.p
}

func (o *rdr) getByte() (byte, liberr.Error) {
	if o.p >= len(o.b) {
		return 0, ErrorOutOfBound.Error(nil)
	}

	v := o.b[o.p]
	o.p++
	return v, nil
}

func (o *rdr) getU16BE() (uint16, liberr.Error) {
	if o.p+2 > len(o.b) {
		return 0, ErrorOutOfBound.Error(nil)
	}

	v := uint16(o.b[o.p])<<8 | uint16(o.b[o.p+1])
	o.p += 2
	return v, nil
}

func (o *rdr) getU32BE() (uint32, liberr.Error) {
	if o.p+4 > len(o.b) {
		return 0, ErrorOutOfBound.Error(nil)
	}

	v := uint32(o.b[o.p])<<24 | uint32(o.b[o.p+1])<<16 | uint32(o.b[o.p+2])<<8 | uint32(o.b[o.p+3])
	o.p += 4
	return v, nil
}

func (o *rdr) getSlice(l int) ([]byte, liberr.Error) {
	if l < 0 || o.p+l > len(o.b) {
		return nil, ErrorOutOfBound.Error(nil)
	}

	v := o.b[o.p : o.p+l : o.p+l]
	o.p += l
	return v, nil
}

func (o *rdr) GetMapHeader() (uint32, liberr.Error) {
	m, err := o.getByte()
	if err != nil {
		return 0, err
	}

	if m&0xf0 == TagFixMap {
		return uint32(m & 0x0f), nil
	}

	switch m {
	case TagMap16:
		c, e := o.getU16BE()
		return uint32(c), e
	case TagMap32:
		return o.getU32BE()
	}

	return 0, ErrorWrongType.Error(nil)
}

func (o *rdr) GetArrayHeader() (uint32, liberr.Error) {
	m, err := o.getByte()
	if err != nil {
		return 0, err
	}

	if m&0xf0 == TagFixArray {
		return uint32(m & 0x0f), nil
	}

	switch m {
	case TagArray16:
		c, e := o.getU16BE()
		return uint32(c), e
	case TagArray32:
		return o.getU32BE()
	}

	return 0, ErrorWrongType.Error(nil)
}

func (o *rdr) GetUint() (uint64, liberr.Error) {
	m, err := o.getByte()
	if err != nil {
		return 0, err
	}

	if m <= 0x7f {
		return uint64(m), nil
	}

	switch m {
	case TagUint8:
		v, e := o.getByte()
		return uint64(v), e
	case TagUint16:
		v, e := o.getU16BE()
		return uint64(v), e
	case TagUint32:
		v, e := o.getU32BE()
		return uint64(v), e
	case TagUint64:
		hi, e := o.getU32BE()
		if e != nil {
			return 0, e
		}
		lo, e := o.getU32BE()
		if e != nil {
			return 0, e
		}
		return uint64(hi)<<32 | uint64(lo), nil
	}

	return 0, ErrorWrongType.Error(nil)
}

func (o *rdr) GetBool() (bool, liberr.Error) {
	m, err := o.getByte()
	if err != nil {
		return false, err
	}

	switch m {
	case TagTrue:
		return true, nil
	case TagFalse:
		return false, nil
	}

	return false, ErrorWrongType.Error(nil)
}

func (o *rdr) GetString() ([]byte, liberr.Error) {
	m, err := o.getByte()
	if err != nil {
		return nil, err
	}

	var l int

	if m&0xe0 == TagFixStr {
		l = int(m & 0x1f)
	} else {
		switch m {
		case TagStr8:
			v, e := o.getByte()
			if e != nil {
				return nil, e
			}
			l = int(v)
		case TagStr16:
			v, e := o.getU16BE()
			if e != nil {
				return nil, e
			}
			l = int(v)
		case TagStr32:
			v, e := o.getU32BE()
			if e != nil {
				return nil, e
			}
			l = int(v)
		default:
			return nil, ErrorWrongType.Error(nil)
		}
	}

	return o.getSlice(l)
}

func (o *rdr) GetBin() ([]byte, liberr.Error) {
	m, err := o.getByte()
	if err != nil {
		return nil, err
	}

	var l int

	switch m {
	case TagBin8:
		v, e := o.getByte()
		if e != nil {
			return nil, e
		}
		l = int(v)
	case TagBin16:
		v, e := o.getU16BE()
		if e != nil {
			return nil, e
		}
		l = int(v)
	case TagBin32:
		v, e := o.getU32BE()
		if e != nil {
			return nil, e
		}
		l = int(v)
	default:
		return nil, ErrorWrongType.Error(nil)
	}

	return o.getSlice(l)
}

func (o *rdr) Skip() liberr.Error {
	return o.skip(0)
}

// skip advances over one value. Containers are walked entry by entry but
// only one level deep: handler argument maps are flat by contract, deeper
// structures abort the scan.
func (o *rdr) skip(depth int) liberr.Error {
	m, err := o.getByte()
	if err != nil {
		return err
	}

	switch {
	case m <= 0x7f:
		return nil
	case m&0xe0 == TagFixStr:
		_, err = o.getSlice(int(m & 0x1f))
		return err
	case m&0xf0 == TagFixMap:
		return o.skipEntries(int(m&0x0f)*2, depth)
	case m&0xf0 == TagFixArray:
		return o.skipEntries(int(m&0x0f), depth)
	}

	switch m {
	case TagNil, TagTrue, TagFalse:
		return nil

	case TagUint8:
		_, err = o.getSlice(1)
	case TagUint16:
		_, err = o.getSlice(2)
	case TagUint32:
		_, err = o.getSlice(4)
	case TagUint64:
		_, err = o.getSlice(8)

	case TagStr8, TagBin8:
		var l byte
		if l, err = o.getByte(); err == nil {
			_, err = o.getSlice(int(l))
		}
	case TagStr16, TagBin16:
		var l uint16
		if l, err = o.getU16BE(); err == nil {
			_, err = o.getSlice(int(l))
		}
	case TagStr32, TagBin32:
		var l uint32
		if l, err = o.getU32BE(); err == nil {
			_, err = o.getSlice(int(l))
		}

	case TagMap16:
		var c uint16
		if c, err = o.getU16BE(); err == nil {
			err = o.skipEntries(int(c)*2, depth)
		}
	case TagMap32:
		var c uint32
		if c, err = o.getU32BE(); err == nil {
			err = o.skipEntries(int(c)*2, depth)
		}
	case TagArray16:
		var c uint16
		if c, err = o.getU16BE(); err == nil {
			err = o.skipEntries(int(c), depth)
		}
	case TagArray32:
		var c uint32
		if c, err = o.getU32BE(); err == nil {
			err = o.skipEntries(int(c), depth)
		}

	default:
		return ErrorUnknownTag.Error(nil)
	}

	return err
}

func (o *rdr) skipEntries(n int, depth int) liberr.Error {
	if depth > 0 {
		return ErrorSkipNested.Error(nil)
	}

	for i := 0; i < n; i++ {
		if err := o.skip(depth + 1); err != nil {
			return err
		}
	}

	return nil
}
