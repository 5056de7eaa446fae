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
	libnet "github.com/shirou/gopsutil/net"
	libprc "github.com/shirou/gopsutil/process"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// address family / socket type values of the kernel socket tables
const (
	afInet  = 2
	afInet6 = 10

	sockStream = 1
	sockDgram  = 2
)

func protoName(family, typ uint32) string {
	var p string

	switch typ {
	case sockStream:
		p = "tcp"
	case sockDgram:
		p = "udp"
	default:
		return "other"
	}

	if family == afInet6 {
		p += "6"
	}

	return p
}

// cmdSs lists the TCP and UDP sockets of the host with their owning
// process, the same view the original agent built from /proc/net.
func cmdSs(s libssn.Session, id uint64, _ []byte) error {
	conns, er := libnet.Connections("inet")
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	m := libmsg.NewWriter(8192)

	m.PutMapHeader(1)
	m.PutString("connections")
	m.PutArrayHeader(len(conns))

	for _, c := range conns {
		var (
			state   = c.Status
			process = "-"
		)

		if state == "" || state == "NONE" {
			state = "-"
		}

		if c.Pid > 0 {
			if p, e := libprc.NewProcess(c.Pid); e == nil {
				if n, e2 := p.Name(); e2 == nil && n != "" {
					process = n
				}
			}
		}

		m.PutMapHeader(8)

		m.PutString("proto")
		m.PutString(protoName(c.Family, c.Type))

		m.PutString("local_addr")
		m.PutString(c.Laddr.IP)

		m.PutString("local_port")
		m.PutUint(uint64(c.Laddr.Port))

		m.PutString("remote_addr")
		m.PutString(c.Raddr.IP)

		m.PutString("remote_port")
		m.PutUint(uint64(c.Raddr.Port))

		m.PutString("state")
		m.PutString(state)

		m.PutString("pid")
		m.PutUint(uint64(maxInt32(c.Pid, 0)))

		m.PutString("process")
		m.PutString(process)
	}

	return s.SendResponse(id, m.Bytes())
}

func maxInt32(v, min int32) int32 {
	if v < min {
		return min
	}

	return v
}
