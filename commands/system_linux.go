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

//go:build linux

package commands

import (
	"golang.org/x/sys/unix"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

const (
	sysLogActionReadAll    = 3
	sysLogActionSizeBuffer = 10
)

// cmdDmesg reads the whole kernel log ring buffer.
func cmdDmesg(s libssn.Session, id uint64, _ []byte) error {
	size, er := unix.Klogctl(sysLogActionSizeBuffer, nil)
	if er != nil {
		return s.SendError(id, er.Error())
	}

	if size <= 0 {
		size = 16384
	}

	buf := make([]byte, size)

	n, er := unix.Klogctl(sysLogActionReadAll, buf)
	if er != nil {
		return s.SendError(id, er.Error())
	}

	m := libmsg.NewWriter(n + 64)

	m.PutMapHeader(1)
	m.PutString("log")
	m.PutBin(buf[:n])

	return s.SendResponse(id, m.Bytes())
}

// cmdReboot confirms, syncs the filesystems, then restarts the machine.
func cmdReboot(s libssn.Session, id uint64, _ []byte) error {
	s.Logger().Warning("reboot requested")

	m := libmsg.NewWriter(32)

	m.PutMapHeader(1)
	m.PutString("status")
	m.PutString("rebooting")

	if err := s.SendResponse(id, m.Bytes()); err != nil {
		return err
	}

	unix.Sync()

	if er := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); er != nil {
		// only reachable when the reboot call itself was refused
		s.Logger().WithError(er).Error("reboot failed")
	}

	return nil
}
