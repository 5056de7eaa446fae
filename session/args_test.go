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

package session_test

import (
	"net"

	encmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func encodeArgs(fn func(m encmsg.Writer)) []byte {
	m := encmsg.NewWriter(128)
	fn(m)
	return m.Bytes()
}

var _ = Describe("session argument helpers", func() {
	Context("string arguments", func() {
		It("should find a string by key and copy it", func() {
			args := encodeArgs(func(m encmsg.Writer) {
				m.PutMapHeader(2)
				m.PutString("mode")
				m.PutUint(420)
				m.PutString("path")
				m.PutString("/etc/passwd")
			})

			v, ok := libssn.GetStringArg(args, "path")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("/etc/passwd"))
		})

		It("should report absence for a missing key", func() {
			args := encodeArgs(func(m encmsg.Writer) {
				m.PutMapHeader(1)
				m.PutString("other")
				m.PutString("x")
			})

			_, ok := libssn.GetStringArg(args, "path")
			Expect(ok).To(BeFalse())
		})

		It("should treat a wrong typed value as absent", func() {
			args := encodeArgs(func(m encmsg.Writer) {
				m.PutMapHeader(1)
				m.PutString("path")
				m.PutUint(7)
			})

			_, ok := libssn.GetStringArg(args, "path")
			Expect(ok).To(BeFalse())
		})

		It("should report absence on empty args", func() {
			_, ok := libssn.GetStringArg(nil, "path")
			Expect(ok).To(BeFalse())
		})
	})

	Context("uint arguments", func() {
		It("should find an unsigned value at every width", func() {
			for _, want := range []uint64{5, 200, 70000, 1 << 40} {
				args := encodeArgs(func(m encmsg.Writer) {
					m.PutMapHeader(2)
					m.PutString("junk")
					m.PutString("skip me")
					m.PutString("size")
					m.PutUint(want)
				})

				v, ok := libssn.GetUintArg(args, "size")
				Expect(ok).To(BeTrue())
				Expect(v).To(Equal(want))
			}
		})

		It("should skip booleans and nils while scanning", func() {
			args := encodeArgs(func(m encmsg.Writer) {
				m.PutMapHeader(3)
				m.PutString("a")
				m.PutBool(true)
				m.PutString("b")
				m.PutNil()
				m.PutString("mode")
				m.PutUint(0o644)
			})

			v, ok := libssn.GetUintArg(args, "mode")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(uint64(0o644)))
		})

		It("should report absence on a malformed map", func() {
			_, ok := libssn.GetUintArg([]byte{0xc3}, "mode")
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("session path resolution", func() {
	newSession := func() libssn.Session {
		a, b := net.Pipe()
		DeferCleanup(func() {
			_ = a.Close()
			_ = b.Close()
		})

		return libssn.New(a, libssn.ModeBind, nil, nil)
	}

	It("should pass absolute paths through unchanged", func() {
		s := newSession()
		s.SetCwd("/var/log")

		Expect(s.ResolvePath("/etc/fstab")).To(Equal("/etc/fstab"))
	})

	It("should join relative paths with a single separator", func() {
		s := newSession()

		s.SetCwd("/var/log")
		Expect(s.ResolvePath("messages")).To(Equal("/var/log/messages"))

		s.SetCwd("/")
		Expect(s.ResolvePath("etc")).To(Equal("/etc"))
	})

	It("should not canonicalize dot-dot segments", func() {
		s := newSession()
		s.SetCwd("/var/log")

		Expect(s.ResolvePath("../run")).To(Equal("/var/log/../run"))
	})
})

var _ = Describe("session dispatch table", func() {
	It("should find entries by exact name, first match winning", func() {
		var hit string

		tbl := libssn.Table{
			{Name: "a", Fct: func(libssn.Session, uint64, []byte) error { hit = "first"; return nil }},
			{Name: "a", Fct: func(libssn.Session, uint64, []byte) error { hit = "second"; return nil }},
		}

		fct := tbl.Lookup("a")
		Expect(fct).ToNot(BeNil())

		_ = fct(nil, 0, nil)
		Expect(hit).To(Equal("first"))
	})

	It("should be case sensitive and miss unknown names", func() {
		tbl := libssn.Table{
			{Name: "ls", Fct: func(libssn.Session, uint64, []byte) error { return nil }},
		}

		Expect(tbl.Lookup("LS")).To(BeNil())
		Expect(tbl.Lookup("nope")).To(BeNil())
	})
})
