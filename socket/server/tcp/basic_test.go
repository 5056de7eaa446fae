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

// basic_test.go validates core server functionality: lifecycle
// (start/stop), connection handling and graceful shutdown.
package tcp_test

import (
	"context"
	"time"

	scksrt "github.com/Necromancer-Labs/embbridge/socket/server/tcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TCP Server Basic Operations", func() {
	var (
		srv scksrt.ServerTcp
		adr string
		c   context.Context
		cnl context.CancelFunc
	)

	BeforeEach(func() {
		adr = getTestAddr()

		var err error
		srv, err = scksrt.New(nil, echoHandler, createDefaultConfig(adr))
		Expect(err).To(BeNil())

		c, cnl = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		if srv != nil {
			_ = srv.Close()
		}
		if cnl != nil {
			cnl()
		}
		time.Sleep(50 * time.Millisecond)
	})

	Context("starting and stopping", func() {
		It("should start server successfully", func() {
			startServerInBackground(c, srv)
			waitForServer(srv, 2*time.Second)

			Expect(srv.IsRunning()).To(BeTrue())
			Expect(srv.IsGone()).To(BeFalse())
		})

		It("should accept connections when running", func() {
			startServerInBackground(c, srv)
			waitForServerAcceptingConnections(adr, 2*time.Second)

			con := connectToServer(adr)
			defer func() { _ = con.Close() }()

			Eventually(func() int64 {
				return srv.OpenConnections()
			}, 2*time.Second, 10*time.Millisecond).Should(Equal(int64(1)))
		})

		It("should echo messages correctly", func() {
			startServerInBackground(c, srv)
			waitForServerAcceptingConnections(adr, 2*time.Second)

			con := connectToServer(adr)
			defer func() { _ = con.Close() }()

			msg := []byte("Hello, World!")
			rsp := sendAndReceive(con, msg)

			Expect(rsp).To(Equal(msg))
		})

		It("should stop server with context cancellation", func() {
			startServerInBackground(c, srv)
			waitForServer(srv, 2*time.Second)

			cnl()

			waitForServerStopped(srv, 2*time.Second)
			Expect(srv.IsRunning()).To(BeFalse())
		})

		It("should be gone once stopped with no connections", func() {
			startServerInBackground(c, srv)
			waitForServer(srv, 2*time.Second)

			cnl()

			Eventually(srv.Done(), 2*time.Second).Should(BeClosed())
			Expect(srv.IsGone()).To(BeTrue())
		})
	})

	Context("connection management", func() {
		It("should track multiple connections", func() {
			startServerInBackground(c, srv)
			waitForServerAcceptingConnections(adr, 2*time.Second)

			con1 := connectToServer(adr)
			defer func() { _ = con1.Close() }()
			Eventually(func() int64 {
				return srv.OpenConnections()
			}, 2*time.Second, 10*time.Millisecond).Should(Equal(int64(1)))

			con2 := connectToServer(adr)
			defer func() { _ = con2.Close() }()
			Eventually(func() int64 {
				return srv.OpenConnections()
			}, 2*time.Second, 10*time.Millisecond).Should(Equal(int64(2)))
		})

		It("should decrement the gauge when a client disconnects", func() {
			startServerInBackground(c, srv)
			waitForServerAcceptingConnections(adr, 2*time.Second)

			con := connectToServer(adr)
			Eventually(func() int64 {
				return srv.OpenConnections()
			}, 2*time.Second, 10*time.Millisecond).Should(Equal(int64(1)))

			_ = con.Close()

			Eventually(func() int64 {
				return srv.OpenConnections()
			}, 2*time.Second, 10*time.Millisecond).Should(Equal(int64(0)))
		})
	})
})

var _ = Describe("TCP Server Creation", func() {
	Context("with valid configuration", func() {
		It("should create server with minimal configuration", func() {
			srv, err := scksrt.New(nil, echoHandler, createDefaultConfig(getTestAddr()))

			Expect(err).To(BeNil())
			Expect(srv).ToNot(BeNil())
			Expect(srv.IsRunning()).To(BeFalse())
			Expect(srv.IsGone()).To(BeTrue())
			Expect(srv.OpenConnections()).To(Equal(int64(0)))
		})
	})

	Context("with invalid configuration", func() {
		It("should fail with an empty address", func() {
			srv, err := scksrt.New(nil, echoHandler, createDefaultConfig(""))

			Expect(err).ToNot(BeNil())
			Expect(srv).To(BeNil())
			Expect(err.HasCode(scksrt.ErrorInvalidAddress)).To(BeTrue())
		})

		It("should fail without a handler", func() {
			srv, err := scksrt.New(nil, nil, createDefaultConfig(getTestAddr()))

			Expect(err).ToNot(BeNil())
			Expect(srv).To(BeNil())
			Expect(err.HasCode(scksrt.ErrorMissingHandler)).To(BeTrue())
		})
	})

	Context("restart protection", func() {
		It("should refuse a second concurrent Listen", func() {
			srv, err := scksrt.New(nil, echoHandler, createDefaultConfig(getTestAddr()))
			Expect(err).To(BeNil())

			c, cnl := context.WithCancel(context.Background())
			defer cnl()

			startServerInBackground(c, srv)
			waitForServer(srv, 2*time.Second)

			er := srv.Listen(c)
			Expect(er).ToNot(BeNil())
			Expect(er.HasCode(scksrt.ErrorAlreadyRunning)).To(BeTrue())
		})
	})
})
