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
	"io"
	"os"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libptl "github.com/Necromancer-Labs/embbridge/protocol"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// cmdPull streams a file down to the peer: one sized response, then data
// frames of at most ChunkSize bytes, the last one flagged done.
//
// Flash partition character devices report a zero stat size; their true
// size is recovered with the MTD ioctl, falling back to the kernel's
// /proc/mtd table. Unknown-size devices are refused.
func cmdPull(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	f, er := os.Open(path)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	defer func() {
		_ = f.Close()
	}()

	st, er := f.Stat()
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	if st.IsDir() {
		return s.SendError(id, "is a directory")
	}

	size := uint64(st.Size())

	if size == 0 {
		if n := mtdSize(path); n > 0 {
			size = n
			s.Logger().WithField("size", size).Debug("detected flash partition device")
		}
	}

	if size == 0 && !st.Mode().IsRegular() {
		return s.SendError(id, "cannot determine device size")
	}

	mode := uint64(st.Mode().Perm())

	m := libmsg.NewWriter(64)

	m.PutMapHeader(2)

	m.PutString("size")
	m.PutUint(size)

	m.PutString("mode")
	m.PutUint(mode)

	if e := s.SendResponse(id, m.Bytes()); e != nil {
		return e
	}

	var (
		chunk = make([]byte, ChunkSize)
		seq   uint64
		sent  uint64
	)

	for sent < size {
		toRead := size - sent
		if toRead > ChunkSize {
			toRead = ChunkSize
		}

		n, e := f.Read(chunk[:toRead])
		if n == 0 {
			if e != nil && e != io.EOF {
				return s.SendError(id, "read error")
			}
			break // EOF
		}

		sent += uint64(n)
		done := sent >= size

		if e = s.SendData(id, seq, chunk[:n], done); e != nil {
			// mid-stream abort: the peer detects the truncation
			return e
		}

		seq++
	}

	s.Logger().WithField("sent", sent).Debug("pull complete")
	return nil
}

// cmdPush ingests a file from the peer: an empty response arms the
// transfer, then data frames are written to the destination as they
// arrive until one carries done.
func cmdPush(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	mode := uint64(0o644)
	if v, got := libssn.GetUintArg(args, "mode"); got {
		mode = v
	}

	f, er := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(mode))
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	_ = f.Chmod(os.FileMode(mode))

	if e := sendUnit(s, id); e != nil {
		_ = f.Close()
		return e
	}

	var total uint64

	for {
		msg, e := s.RecvFrame()
		if e != nil {
			_ = f.Close()
			return e
		}

		d, e := libptl.ParseData(msg)
		if e != nil {
			_ = f.Close()
			return s.SendError(id, "invalid data chunk")
		}

		if len(d.Chunk) > 0 {
			if _, er = f.Write(d.Chunk); er != nil {
				_ = f.Close()
				return s.SendError(id, "write error")
			}

			total += uint64(len(d.Chunk))
		}

		if d.Done {
			break
		}
	}

	if er = f.Close(); er != nil {
		return s.SendError(id, "write error")
	}

	s.Logger().WithField("received", total).Debug("push complete")
	return nil
}
