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

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// hexdumpDefaultLen bounds how much a single hexdump renders when no
// length argument is given: the text output is ~4x the input size.
const hexdumpDefaultLen = 1024 * 1024

// cmdHexdump renders a file region as the canonical offset / hex / ascii
// dump. Optional args: offset (default 0) and length.
func cmdHexdump(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	var offset uint64
	if v, got := libssn.GetUintArg(args, "offset"); got {
		offset = v
	}

	length := uint64(hexdumpDefaultLen)
	if v, got := libssn.GetUintArg(args, "length"); got {
		length = v
	}

	if length > hexdumpDefaultLen {
		return s.SendError(id, "length too large")
	}

	f, er := os.Open(path)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	defer func() {
		_ = f.Close()
	}()

	if offset > 0 {
		if _, er = f.Seek(int64(offset), io.SeekStart); er != nil {
			return s.SendError(id, sysErrString(er))
		}
	}

	data := make([]byte, length)

	n, er := io.ReadFull(f, data)
	if er != nil && er != io.EOF && er != io.ErrUnexpectedEOF {
		return s.SendError(id, "read error")
	}
	data = data[:n]

	var out bytes.Buffer

	for base := 0; base < len(data); base += 16 {
		row := data[base:]
		if len(row) > 16 {
			row = row[:16]
		}

		fmt.Fprintf(&out, "%08x  ", offset+uint64(base))

		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Fprintf(&out, "%02x ", row[i])
			} else {
				out.WriteString("   ")
			}
			if i == 7 {
				out.WriteByte(' ')
			}
		}

		out.WriteString(" |")

		for _, c := range row {
			if c >= 32 && c <= 126 {
				out.WriteByte(c)
			} else {
				out.WriteByte('.')
			}
		}

		out.WriteString("|\n")
	}

	return sendContent(s, id, out.Bytes())
}
