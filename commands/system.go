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
	"os/user"
	"strconv"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

var errFileTooLarge = errors.New("file too large")

// cmdWhoami reports the user the agent runs as.
func cmdWhoami(s libssn.Session, id uint64, _ []byte) error {
	var (
		uid  = os.Getuid()
		gid  = os.Getgid()
		name = "unknown"
	)

	if u, er := user.LookupId(strconv.Itoa(uid)); er == nil {
		name = u.Username
	}

	m := libmsg.NewWriter(128)

	m.PutMapHeader(3)

	m.PutString("user")
	m.PutString(name)

	m.PutString("uid")
	m.PutUint(uint64(uid))

	m.PutString("gid")
	m.PutUint(uint64(gid))

	return s.SendResponse(id, m.Bytes())
}

// cmdEnv returns the agent process environment.
func cmdEnv(s libssn.Session, id uint64, _ []byte) error {
	env := os.Environ()

	m := libmsg.NewWriter(1024)

	m.PutMapHeader(1)
	m.PutString("environ")
	m.PutArrayHeader(len(env))

	for _, e := range env {
		m.PutString(e)
	}

	return s.SendResponse(id, m.Bytes())
}

// cmdCpuinfo returns the raw kernel CPU table.
func cmdCpuinfo(s libssn.Session, id uint64, _ []byte) error {
	f, er := os.Open("/proc/cpuinfo")
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	defer func() {
		_ = f.Close()
	}()

	content, er := readAllBounded(f, catMaxSize)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	return sendContent(s, id, content)
}
