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

package agent_test

import (
	libagt "github.com/Necromancer-Labs/embbridge/agent"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("agent configuration", func() {
	Context("connect mode", func() {
		It("should accept a valid remote address", func() {
			cfg := libagt.Config{
				Mode:   libagt.ModeConnect,
				Remote: "192.168.1.100:1337",
			}

			Expect(cfg.Validate()).To(BeNil())
		})

		It("should require the remote address", func() {
			cfg := libagt.Config{
				Mode: libagt.ModeConnect,
			}

			err := cfg.Validate()
			Expect(err).ToNot(BeNil())
			Expect(err.HasCode(libagt.ErrorConfigValidator)).To(BeTrue())
		})

		It("should reject a remote without a port", func() {
			cfg := libagt.Config{
				Mode:   libagt.ModeConnect,
				Remote: "192.168.1.100",
			}

			Expect(cfg.Validate()).ToNot(BeNil())
		})
	})

	Context("listen mode", func() {
		It("should accept a non zero port", func() {
			cfg := libagt.Config{
				Mode: libagt.ModeListen,
				Port: libagt.DefaultPort,
			}

			Expect(cfg.Validate()).To(BeNil())
		})

		It("should require a non zero port", func() {
			cfg := libagt.Config{
				Mode: libagt.ModeListen,
			}

			Expect(cfg.Validate()).ToNot(BeNil())
		})
	})

	Context("mode", func() {
		It("should require a known mode", func() {
			Expect(libagt.Config{}.Validate()).ToNot(BeNil())

			cfg := libagt.Config{
				Mode: "fork",
				Port: 1,
			}

			Expect(cfg.Validate()).ToNot(BeNil())
		})
	})

	Context("agent creation", func() {
		It("should reject an invalid configuration", func() {
			_, err := libagt.New(libagt.Config{}, nil)
			Expect(err).ToNot(BeNil())
		})

		It("should build an agent from a valid configuration", func() {
			agt, err := libagt.New(libagt.Config{
				Mode: libagt.ModeListen,
				Port: libagt.DefaultPort,
			}, nil)

			Expect(err).To(BeNil())
			Expect(agt).ToNot(BeNil())
		})
	})
})
