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
	"bytes"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
)

// GetStringArg scans the encoded args map for the given key and returns an
// owned copy of its string value. Absence, a decode failure or a value of
// another type all report absence.
func GetStringArg(args []byte, key string) (string, bool) {
	if len(args) == 0 {
		return "", false
	}

	var (
		r = libmsg.NewReader(args)
		k = []byte(key)
	)

	cnt, err := r.GetMapHeader()
	if err != nil {
		return "", false
	}

	for i := uint32(0); i < cnt; i++ {
		name, e := r.GetString()
		if e != nil {
			return "", false
		}

		if bytes.Equal(name, k) {
			v, er := r.GetString()
			if er != nil {
				return "", false
			}
			return string(v), true
		}

		if e = r.Skip(); e != nil {
			return "", false
		}
	}

	return "", false
}

// GetUintArg scans the encoded args map for the given key and returns its
// unsigned value. Absence, a decode failure or a value of another type all
// report absence.
func GetUintArg(args []byte, key string) (uint64, bool) {
	if len(args) == 0 {
		return 0, false
	}

	var (
		r = libmsg.NewReader(args)
		k = []byte(key)
	)

	cnt, err := r.GetMapHeader()
	if err != nil {
		return 0, false
	}

	for i := uint32(0); i < cnt; i++ {
		name, e := r.GetString()
		if e != nil {
			return 0, false
		}

		if bytes.Equal(name, k) {
			v, er := r.GetUint()
			if er != nil {
				return 0, false
			}
			return v, true
		}

		if e = r.Skip(); e != nil {
			return 0, false
		}
	}

	return 0, false
}
