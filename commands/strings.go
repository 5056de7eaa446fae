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
	"bufio"
	"bytes"
	"io"
	"os"

	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// longest printable run kept per string
const stringsRunMax = 1023

// cmdStrings extracts printable ASCII runs of at least min_len bytes
// (default 4) from a file, one per output line.
func cmdStrings(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	minLen := uint64(4)
	if v, got := libssn.GetUintArg(args, "min_len"); got {
		minLen = v
	}

	f, er := os.Open(path)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	defer func() {
		_ = f.Close()
	}()

	var (
		out bytes.Buffer
		run = make([]byte, 0, stringsRunMax)
		rd  = bufio.NewReader(f)
	)

	flush := func() {
		if uint64(len(run)) >= minLen {
			out.Write(run)
			out.WriteByte('\n')
		}
		run = run[:0]
	}

	for {
		c, er := rd.ReadByte()
		if er != nil {
			if er != io.EOF {
				return s.SendError(id, "read error")
			}
			break
		}

		if (c >= 32 && c <= 126) || c == '\t' {
			if len(run) < stringsRunMax {
				run = append(run, c)
			}
			continue
		}

		flush()
	}

	flush()

	return sendContent(s, id, out.Bytes())
}
