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
	"errors"
	"os"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// sysErrString unwraps OS errors down to the bare errno text so the peer
// sees the same strings the reference agent produced with strerror.
func sysErrString(err error) string {
	var (
		pe *os.PathError
		le *os.LinkError
		se *os.SyscallError
	)

	switch {
	case errors.As(err, &pe):
		return pe.Err.Error()
	case errors.As(err, &le):
		return le.Err.Error()
	case errors.As(err, &se):
		return se.Err.Error()
	}

	return err.Error()
}

// sendUnit emits a success response with an empty data map.
func sendUnit(s libssn.Session, id uint64) error {
	m := libmsg.NewWriter(8)
	m.PutMapHeader(0)

	if err := s.SendResponse(id, m.Bytes()); err != nil {
		return err
	}

	return nil
}

// sendContent emits the common {content: <binary>} response body.
func sendContent(s libssn.Session, id uint64, content []byte) error {
	m := libmsg.NewWriter(len(content) + 64)

	m.PutMapHeader(1)
	m.PutString("content")
	m.PutBin(content)

	if err := s.SendResponse(id, m.Bytes()); err != nil {
		return err
	}

	return nil
}

// pathArg extracts the "path" argument and resolves it against the session
// cwd. The second return is false when the argument is missing; the error
// response has then already been sent.
func pathArg(s libssn.Session, id uint64, args []byte) (string, bool, error) {
	p, ok := libssn.GetStringArg(args, "path")
	if !ok {
		return "", false, s.SendError(id, "missing path argument")
	}

	return s.ResolvePath(p), true, nil
}
