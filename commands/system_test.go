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
	"os"
	"path/filepath"
	"strings"

	libcmd "github.com/Necromancer-Labs/embbridge/commands"
	encmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("commands system surface", func() {
	var (
		tbl = libcmd.Table()
		tmp string
	)

	BeforeEach(func() {
		tmp = GinkgoT().TempDir()
	})

	Context("whoami", func() {
		It("should report the current uid and gid", func() {
			s := newFakeSession("/")

			Expect(tbl.Lookup("whoami")(s, 1, nil)).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeTrue())
			Expect(dataUint(rsp.data, "uid")).To(Equal(uint64(os.Getuid())))
			Expect(dataUint(rsp.data, "gid")).To(Equal(uint64(os.Getgid())))
			Expect(dataStr(rsp.data, "user")).ToNot(BeEmpty())
		})
	})

	Context("env", func() {
		It("should list the process environment", func() {
			GinkgoT().Setenv("EDB_TEST_MARKER", "present")

			s := newFakeSession("/")

			Expect(tbl.Lookup("env")(s, 1, nil)).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeTrue())

			r := encmsg.NewReader(rsp.data)

			_, err := r.GetMapHeader()
			Expect(err).To(BeNil())

			key, err := r.GetString()
			Expect(err).To(BeNil())
			Expect(string(key)).To(Equal("environ"))

			n, err := r.GetArrayHeader()
			Expect(err).To(BeNil())

			found := false
			for i := uint32(0); i < n; i++ {
				v, e := r.GetString()
				Expect(e).To(BeNil())

				if string(v) == "EDB_TEST_MARKER=present" {
					found = true
				}
			}

			Expect(found).To(BeTrue())
		})
	})

	Context("exec", func() {
		It("should run a binary without a shell and capture stdout", func() {
			s := newFakeSession(tmp)

			args := encArgs(func(m encmsg.Writer) {
				m.PutMapHeader(1)
				m.PutString("command")
				m.PutString("/bin/sh -c true")
			})

			Expect(tbl.Lookup("exec")(s, 1, args)).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeTrue())
			Expect(dataUint(rsp.data, "exit_code")).To(Equal(uint64(0)))
		})

		It("should report 127 when the executable does not exist", func() {
			s := newFakeSession(tmp)

			args := encArgs(func(m encmsg.Writer) {
				m.PutMapHeader(1)
				m.PutString("command")
				m.PutString("/no/such/binary at all")
			})

			Expect(tbl.Lookup("exec")(s, 1, args)).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeTrue())
			Expect(dataUint(rsp.data, "exit_code")).To(Equal(uint64(127)))
			Expect(string(dataBin(rsp.data, "stderr"))).To(ContainSubstring("exec: "))
		})

		It("should propagate a non zero exit code", func() {
			s := newFakeSession(tmp)

			args := encArgs(func(m encmsg.Writer) {
				m.PutMapHeader(1)
				m.PutString("command")
				m.PutString("/bin/sh -c exit_3_does_not_exist")
			})

			Expect(tbl.Lookup("exec")(s, 1, args)).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeTrue())
			Expect(dataUint(rsp.data, "exit_code")).ToNot(Equal(uint64(0)))
		})

		It("should require the command argument", func() {
			s := newFakeSession(tmp)

			Expect(tbl.Lookup("exec")(s, 1, nil)).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeFalse())
			Expect(rsp.err).To(Equal("missing command argument"))
		})
	})

	Context("strings", func() {
		It("should extract printable runs of the minimum length", func() {
			s := newFakeSession(tmp)

			blob := append([]byte{0x00, 0x01}, []byte("hello world")...)
			blob = append(blob, 0xff, 0xfe)
			blob = append(blob, []byte("ok")...)
			blob = append(blob, 0x00)
			blob = append(blob, []byte("second run")...)

			Expect(os.WriteFile(filepath.Join(tmp, "bin"), blob, 0o644)).To(Succeed())

			Expect(tbl.Lookup("strings")(s, 1, argsPath("bin"))).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeTrue())

			lines := strings.Split(strings.TrimRight(string(dataBin(rsp.data, "content")), "\n"), "\n")
			Expect(lines).To(Equal([]string{"hello world", "second run"}))
		})

		It("should honor a custom min_len", func() {
			s := newFakeSession(tmp)

			blob := append([]byte("ab"), 0x00)
			blob = append(blob, []byte("xyz")...)

			Expect(os.WriteFile(filepath.Join(tmp, "bin"), blob, 0o644)).To(Succeed())

			args := encArgs(func(m encmsg.Writer) {
				m.PutMapHeader(2)
				m.PutString("path")
				m.PutString("bin")
				m.PutString("min_len")
				m.PutUint(2)
			})

			Expect(tbl.Lookup("strings")(s, 1, args)).To(BeNil())

			rsp := s.lastResp()
			content := string(dataBin(rsp.data, "content"))
			Expect(content).To(Equal("ab\nxyz\n"))
		})
	})

	Context("hexdump", func() {
		It("should render offset, hex and ascii columns", func() {
			s := newFakeSession(tmp)

			Expect(os.WriteFile(filepath.Join(tmp, "f"), []byte("0123456789abcdefXYZ"), 0o644)).To(Succeed())

			Expect(tbl.Lookup("hexdump")(s, 1, argsPath("f"))).To(BeNil())

			rsp := s.lastResp()
			Expect(rsp.ok).To(BeTrue())

			content := string(dataBin(rsp.data, "content"))
			lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(HavePrefix("00000000  30 31 32 33 34 35 36 37  38 39 61 62 63 64 65 66"))
			Expect(lines[0]).To(HaveSuffix("|0123456789abcdef|"))
			Expect(lines[1]).To(HavePrefix("00000010  58 59 5a"))
			Expect(lines[1]).To(HaveSuffix("|XYZ|"))
		})

		It("should honor offset and length arguments", func() {
			s := newFakeSession(tmp)

			Expect(os.WriteFile(filepath.Join(tmp, "f"), []byte("AAAABBBBCCCC"), 0o644)).To(Succeed())

			args := encArgs(func(m encmsg.Writer) {
				m.PutMapHeader(3)
				m.PutString("path")
				m.PutString("f")
				m.PutString("offset")
				m.PutUint(4)
				m.PutString("length")
				m.PutUint(4)
			})

			Expect(tbl.Lookup("hexdump")(s, 1, args)).To(BeNil())

			content := string(dataBin(s.lastResp().data, "content"))
			Expect(content).To(HavePrefix("00000004  42 42 42 42"))
			Expect(content).To(HaveSuffix("|BBBB|\n"))
		})
	})
})
