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

package errors_test

import (
	"errors"
	"fmt"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testCode liberr.CodeError = liberr.MinAvailable + 77

var _ = Describe("errors creation", func() {
	Context("plain constructors", func() {
		It("should carry the code and message", func() {
			err := liberr.New(uint16(testCode), "something broke")

			Expect(err.Code()).To(Equal(uint16(testCode)))
			Expect(err.StringError()).To(Equal("something broke"))
			Expect(err.Error()).To(Equal("something broke"))
		})

		It("should format messages with Newf", func() {
			err := liberr.Newf(42, "bad value %d on %s", 7, "port")

			Expect(err.StringError()).To(Equal("bad value 7 on port"))
		})

		It("should capture a trace frame", func() {
			err := liberr.New(1, "traced")

			Expect(err.GetTrace()).ToNot(BeEmpty())
			Expect(err.GetTrace()).To(ContainSubstring("#"))
		})
	})

	Context("parent chains", func() {
		It("should wrap parents and find their codes", func() {
			root := liberr.New(100, "root cause")
			err := liberr.New(200, "wrapper", root)

			Expect(err.HasParent()).To(BeTrue())
			Expect(err.HasCode(liberr.CodeError(100))).To(BeTrue())
			Expect(err.HasCode(liberr.CodeError(200))).To(BeTrue())
			Expect(err.HasCode(liberr.CodeError(300))).To(BeFalse())
			Expect(err.CodeSlice()).To(Equal([]uint16{200, 100}))
		})

		It("should adopt stdlib errors as parents", func() {
			cause := errors.New("io timeout")
			err := liberr.New(5, "request failed", cause)

			Expect(err.HasError(cause)).To(BeTrue())
			Expect(err.StringErrorSlice()).To(ContainElement("io timeout"))
		})

		It("should unwrap for errors.Is/As", func() {
			cause := errors.New("root")
			err := liberr.New(5, "wrapped", cause)

			Expect(err.Unwrap()).To(HaveLen(1))
		})
	})

	Context("IfError", func() {
		It("should return nil without a valid parent", func() {
			Expect(liberr.IfError(1, "nope", nil)).To(BeNil())
		})

		It("should return an error when a parent exists", func() {
			err := liberr.IfError(1, "yes", fmt.Errorf("cause"))

			Expect(err).ToNot(BeNil())
			Expect(err.HasParent()).To(BeTrue())
		})
	})

	Context("registered messages", func() {
		It("should resolve a registered code to its message", func() {
			Expect(liberr.ExistInMapMessage(testCode)).To(BeFalse())

			liberr.RegisterIdFctMessage(testCode, func(code liberr.CodeError) string {
				if code == testCode {
					return "registered test message"
				}
				return liberr.NullMessage
			})

			Expect(testCode.Message()).To(Equal("registered test message"))

			err := testCode.Error(nil)
			Expect(err.StringError()).To(Equal("registered test message"))
			Expect(err.IsCode(testCode)).To(BeTrue())
		})
	})

	Context("helpers", func() {
		It("should detect the Error interface with Is", func() {
			Expect(liberr.Is(liberr.New(1, "x"))).To(BeTrue())
			Expect(liberr.Is(errors.New("x"))).To(BeFalse())
		})

		It("should match codes through IsCode", func() {
			err := liberr.New(123, "x")

			Expect(liberr.IsCode(err, liberr.CodeError(123))).To(BeTrue())
			Expect(liberr.IsCode(err, liberr.CodeError(124))).To(BeFalse())
			Expect(liberr.IsCode(errors.New("x"), liberr.CodeError(1))).To(BeFalse())
		})
	})
})
