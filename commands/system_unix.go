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

//go:build unix

package commands

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// cmdUname reports the kernel identity, same five fields as uname(2).
func cmdUname(s libssn.Session, id uint64, _ []byte) error {
	var uts unix.Utsname

	if er := unix.Uname(&uts); er != nil {
		return s.SendError(id, er.Error())
	}

	m := libmsg.NewWriter(512)

	m.PutMapHeader(5)

	m.PutString("sysname")
	m.PutString(utsString(uts.Sysname[:]))

	m.PutString("nodename")
	m.PutString(utsString(uts.Nodename[:]))

	m.PutString("release")
	m.PutString(utsString(uts.Release[:]))

	m.PutString("version")
	m.PutString(utsString(uts.Version[:]))

	m.PutString("machine")
	m.PutString(utsString(uts.Machine[:]))

	return s.SendResponse(id, m.Bytes())
}

func utsString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

// cmdKillAgent answers with the agent pid, then delivers SIGTERM to the
// process so the supervisor shuts down after the reply reached the peer.
func cmdKillAgent(s libssn.Session, id uint64, _ []byte) error {
	pid := os.Getpid()

	s.Logger().WithField("pid", pid).Warning("kill-agent requested")

	m := libmsg.NewWriter(64)

	m.PutMapHeader(1)
	m.PutString("killed_pid")
	m.PutUint(uint64(pid))

	// reply first so the peer sees the confirmation before teardown
	if err := s.SendResponse(id, m.Bytes()); err != nil {
		return err
	}

	if er := unix.Kill(pid, unix.SIGTERM); er != nil {
		s.Logger().WithError(er).Error("cannot signal agent process")
	}

	return nil
}
