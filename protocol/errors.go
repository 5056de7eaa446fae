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

package protocol

import (
	"fmt"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

const pkgName = "embbridge/protocol"

const (
	ErrorFrameTooLarge liberr.CodeError = iota + liberr.MinPkgProtocol
	ErrorFrameRead
	ErrorFrameWrite
	ErrorBadEnvelope
	ErrorBadType
	ErrorBadVersion
	ErrorMissingCommand
	ErrorUnknownField
)

func init() {
	if liberr.ExistInMapMessage(ErrorFrameTooLarge) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	liberr.RegisterIdFctMessage(ErrorFrameTooLarge, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorFrameTooLarge:
		return "message exceeds maximum size"
	case ErrorFrameRead:
		return "cannot read frame from peer"
	case ErrorFrameWrite:
		return "cannot write frame to peer"
	case ErrorBadEnvelope:
		return "invalid message format"
	case ErrorBadType:
		return "expected request"
	case ErrorBadVersion:
		return "unsupported protocol version"
	case ErrorMissingCommand:
		return "missing command"
	case ErrorUnknownField:
		return "unknown field"
	}

	return liberr.NullMessage
}
