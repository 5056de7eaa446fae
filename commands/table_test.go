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

package commands_test

import (
	libcmd "github.com/Necromancer-Labs/embbridge/commands"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("commands table", func() {
	It("should contain every protocol command exactly once", func() {
		tbl := libcmd.Table()

		want := []string{
			"ls", "cat", "pwd", "cd", "realpath", "pull", "push", "exec",
			"mkdir", "rm", "mv", "cp", "chmod", "touch", "uname", "ps",
			"ss", "env", "mtd", "firmware", "hexdump", "kill-agent",
			"reboot", "whoami", "dmesg", "strings", "cpuinfo",
			"ip_addr", "ip_route",
		}

		Expect(tbl.Names()).To(ConsistOf(want))

		seen := map[string]int{}
		for _, n := range tbl.Names() {
			seen[n]++
		}

		for n, c := range seen {
			Expect(c).To(Equal(1), "command %s registered more than once", n)
		}
	})

	It("should resolve every registered name to a handler", func() {
		tbl := libcmd.Table()

		for _, n := range tbl.Names() {
			Expect(tbl.Lookup(n)).ToNot(BeNil())
		}
	})

	It("should answer not implemented for the reserved firmware command", func() {
		s := newFakeSession("/")

		Expect(libcmd.Table().Lookup("firmware")(s, 9, nil)).To(BeNil())

		rsp := s.lastResp()
		Expect(rsp.ok).To(BeFalse())
		Expect(rsp.err).To(Equal("not implemented"))
	})
})
