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
	libprc "github.com/shirou/gopsutil/process"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// cmdPs enumerates the process table: pid, parent, short name, scheduler
// state and the full command line. Kernel threads carry their name in
// brackets, matching what procps renders.
func cmdPs(s libssn.Session, id uint64, _ []byte) error {
	procs, er := libprc.Processes()
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	m := libmsg.NewWriter(8192)

	m.PutMapHeader(1)
	m.PutString("processes")
	m.PutArrayHeader(len(procs))

	for _, p := range procs {
		var (
			ppid    int32
			name    string
			state   = "?"
			cmdline string
		)

		if v, e := p.Ppid(); e == nil {
			ppid = v
		}

		if v, e := p.Name(); e == nil {
			name = v
		}

		if v, e := p.Status(); e == nil && v != "" {
			state = v
		}

		if v, e := p.Cmdline(); e == nil {
			cmdline = v
		}

		if cmdline == "" && name != "" {
			cmdline = "[" + name + "]"
		}

		m.PutMapHeader(5)

		m.PutString("pid")
		m.PutUint(uint64(p.Pid))

		m.PutString("ppid")
		m.PutUint(uint64(ppid))

		m.PutString("name")
		m.PutString(name)

		m.PutString("state")
		m.PutString(state)

		m.PutString("cmdline")
		m.PutString(cmdline)
	}

	return s.SendResponse(id, m.Bytes())
}
