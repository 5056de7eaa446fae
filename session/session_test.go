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
	"context"
	"net"
	"os"
	"path/filepath"
	"time"

	libcmd "github.com/Necromancer-Labs/embbridge/commands"
	encmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libptl "github.com/Necromancer-Labs/embbridge/protocol"
	libssn "github.com/Necromancer-Labs/embbridge/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("session", func() {
	var (
		cli net.Conn
		srv net.Conn
		cnl context.CancelFunc
		end chan liberr.Error
	)

	start := func(mode libssn.Mode) {
		var ctx context.Context

		srv, cli = net.Pipe()
		ctx, cnl = context.WithCancel(context.Background())
		end = make(chan liberr.Error, 1)

		s := libssn.New(srv, mode, libcmd.Table(), nil)

		go func() {
			end <- s.Run(ctx)
		}()
	}

	AfterEach(func() {
		if cli != nil {
			_ = cli.Close()
		}
		if srv != nil {
			_ = srv.Close()
		}
		if cnl != nil {
			cnl()
		}
	})

	Context("handshake", func() {
		It("should speak first in reverse mode and answer a pwd request", func() {
			start(libssn.ModeReverse)
			driveHandshakeReverse(cli)

			sendReq(cli, 7, "pwd", nil)

			rsp := readResp(cli)
			Expect(rsp.id).To(Equal(uint64(7)))
			Expect(rsp.ok).To(BeTrue())

			cwd, _ := os.Getwd()
			Expect(dataString(rsp.data, "path")).To(Equal(cwd))
		})

		It("should answer hello with hello_ack in bind mode", func() {
			start(libssn.ModeBind)
			driveHandshakeBind(cli)

			sendReq(cli, 1, "pwd", nil)

			rsp := readResp(cli)
			Expect(rsp.id).To(Equal(uint64(1)))
			Expect(rsp.ok).To(BeTrue())
		})

		It("should terminate on a first frame that is not a handshake", func() {
			start(libssn.ModeBind)

			m := encmsg.NewWriter(32)
			m.PutMapHeader(1)
			m.PutString("type")
			m.PutString("req")

			Expect(libptl.SendFrame(cli, m.Bytes())).To(BeNil())

			var err liberr.Error
			Eventually(end, time.Second).Should(Receive(&err))
			Expect(err).ToNot(BeNil())
		})
	})

	Context("request loop", func() {
		It("should answer an unknown command with an error and keep serving", func() {
			start(libssn.ModeReverse)
			driveHandshakeReverse(cli)

			sendReq(cli, 11, "nope", nil)

			rsp := readResp(cli)
			Expect(rsp.id).To(Equal(uint64(11)))
			Expect(rsp.ok).To(BeFalse())
			Expect(rsp.err).To(Equal("unknown command"))

			// session is still alive
			sendReq(cli, 12, "pwd", nil)
			rsp = readResp(cli)
			Expect(rsp.id).To(Equal(uint64(12)))
			Expect(rsp.ok).To(BeTrue())
		})

		It("should echo every request id exactly once and in order", func() {
			start(libssn.ModeReverse)
			driveHandshakeReverse(cli)

			for _, id := range []uint64{3, 1, 500, 2} {
				sendReq(cli, id, "pwd", nil)

				rsp := readResp(cli)
				Expect(rsp.id).To(Equal(id))
			}
		})

		It("should update the cwd on cd and report it on pwd", func() {
			start(libssn.ModeReverse)
			driveHandshakeReverse(cli)

			tmp := GinkgoT().TempDir()
			real, err := filepath.EvalSymlinks(tmp)
			Expect(err).ToNot(HaveOccurred())

			sendReq(cli, 1, "cd", func(m encmsg.Writer) {
				m.PutMapHeader(1)
				m.PutString("path")
				m.PutString(tmp)
			})

			rsp := readResp(cli)
			Expect(rsp.id).To(Equal(uint64(1)))
			Expect(rsp.ok).To(BeTrue())
			Expect(dataString(rsp.data, "path")).To(Equal(real))

			sendReq(cli, 2, "pwd", nil)

			rsp = readResp(cli)
			Expect(rsp.id).To(Equal(uint64(2)))
			Expect(dataString(rsp.data, "path")).To(Equal(real))
		})

		It("should reject a non req envelope with an error response", func() {
			start(libssn.ModeReverse)
			driveHandshakeReverse(cli)

			m := encmsg.NewWriter(64)
			m.PutMapHeader(2)
			m.PutString("type")
			m.PutString("data")
			m.PutString("id")
			m.PutUint(33)

			Expect(libptl.SendFrame(cli, m.Bytes())).To(BeNil())

			rsp := readResp(cli)
			Expect(rsp.id).To(Equal(uint64(33)))
			Expect(rsp.ok).To(BeFalse())
			Expect(rsp.err).To(Equal("expected request"))
		})

		It("should end the session when the peer disconnects", func() {
			start(libssn.ModeReverse)
			driveHandshakeReverse(cli)

			_ = cli.Close()

			var err liberr.Error
			Eventually(end, time.Second).Should(Receive(&err))
			Expect(err).To(BeNil())
		})
	})
})
