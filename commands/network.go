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
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"strings"

	libnet "github.com/shirou/gopsutil/net"

	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// cmdIpAddr renders the network interfaces as text: name, flags, mtu,
// link address and the attached addresses, close to what iproute2 prints.
func cmdIpAddr(s libssn.Session, id uint64, _ []byte) error {
	ifs, er := libnet.Interfaces()
	if er != nil {
		return s.SendError(id, "cannot read network interfaces")
	}

	var out bytes.Buffer

	for _, ifc := range ifs {
		fmt.Fprintf(&out, "%s: <%s> mtu %d\n", ifc.Name, strings.Join(ifc.Flags, ","), ifc.MTU)

		if ifc.HardwareAddr != "" && ifc.HardwareAddr != "00:00:00:00:00:00" {
			fmt.Fprintf(&out, "    link/ether %s\n", ifc.HardwareAddr)
		}

		for _, a := range ifc.Addrs {
			if strings.Contains(a.Addr, ":") {
				fmt.Fprintf(&out, "    inet6 %s\n", a.Addr)
			} else {
				fmt.Fprintf(&out, "    inet %s\n", a.Addr)
			}
		}
	}

	return sendContent(s, id, out.Bytes())
}

// cmdIpRoute renders the IPv4 routing table from /proc/net/route:
// "default via GW dev IF" and "DST/CIDR [via GW] dev IF [metric N]" lines.
func cmdIpRoute(s libssn.Session, id uint64, _ []byte) error {
	f, er := os.Open("/proc/net/route")
	if er != nil {
		return s.SendError(id, "cannot read routing table")
	}

	defer func() {
		_ = f.Close()
	}()

	var (
		out bytes.Buffer
		sc  = bufio.NewScanner(f)
	)

	// skip header line
	if !sc.Scan() {
		return s.SendError(id, "empty routing table")
	}

	for sc.Scan() {
		var (
			iface                string
			dst, gw, mask, flags uint32
			refcnt, use, metric  int
			mtu, window, irtt    int
		)

		n, _ := fmt.Sscanf(sc.Text(), "%s %X %X %X %d %d %d %X %d %d %d",
			&iface, &dst, &gw, &flags, &refcnt, &use, &metric, &mask, &mtu, &window, &irtt)
		if n < 8 {
			continue
		}

		var (
			gwS  = hexAddrString(gw)
			dstS = hexAddrString(dst)
			cidr = maskBits(mask)
		)

		if dst == 0 {
			fmt.Fprintf(&out, "default via %s dev %s", gwS, iface)
		} else {
			fmt.Fprintf(&out, "%s/%d", dstS, cidr)
			if gw != 0 {
				fmt.Fprintf(&out, " via %s", gwS)
			}
			fmt.Fprintf(&out, " dev %s", iface)
		}

		if metric > 0 {
			fmt.Fprintf(&out, " metric %d", metric)
		}

		out.WriteByte('\n')
	}

	if out.Len() == 0 {
		out.WriteString("(no routes)\n")
	}

	return sendContent(s, id, out.Bytes())
}

// hexAddrString renders the little-endian hex address of /proc/net/route
// in dotted form.
func hexAddrString(v uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return net.IPv4(b[0], b[1], b[2], b[3]).String()
}

func maskBits(mask uint32) int {
	n := 0

	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}

	return n
}
