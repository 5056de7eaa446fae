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
	"fmt"
	"os"
	"strings"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

type mtdPart struct {
	dev       string
	size      uint64
	erasesize uint64
	name      string
}

// cmdMtd enumerates the flash partitions the kernel exposes in /proc/mtd.
func cmdMtd(s libssn.Session, id uint64, _ []byte) error {
	f, er := os.Open("/proc/mtd")
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	defer func() {
		_ = f.Close()
	}()

	var parts []mtdPart

	sc := bufio.NewScanner(f)

	// format: dev:    size   erasesize  name
	//         mtd0: 00040000 00010000 "bootloader"
	for sc.Scan() {
		line := sc.Text()

		var p mtdPart

		if _, err := fmt.Sscanf(line, "mtd%s %x %x", &p.dev, &p.size, &p.erasesize); err != nil {
			continue // header or malformed line
		}

		p.dev = "mtd" + strings.TrimSuffix(p.dev, ":")

		if i := strings.IndexByte(line, '"'); i >= 0 {
			p.name = strings.Trim(line[i:], "\"")
		}

		parts = append(parts, p)
	}

	m := libmsg.NewWriter(1024)

	m.PutMapHeader(1)
	m.PutString("partitions")
	m.PutArrayHeader(len(parts))

	for _, p := range parts {
		m.PutMapHeader(4)

		m.PutString("dev")
		m.PutString(p.dev)

		m.PutString("size")
		m.PutUint(p.size)

		m.PutString("erasesize")
		m.PutUint(p.erasesize)

		m.PutString("name")
		m.PutString(p.name)
	}

	return s.SendResponse(id, m.Bytes())
}
