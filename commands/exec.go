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
	"bytes"
	"errors"
	"os/exec"
	"strings"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// cmdExec runs a binary directly, no shell: the first token of the
// command string is the executable path, the rest become argv. Both output
// streams are captured whole; the exit code reports 128+signal for a
// signalled child and 127 when the exec itself failed.
func cmdExec(s libssn.Session, id uint64, args []byte) error {
	command, ok := libssn.GetStringArg(args, "command")
	if !ok {
		return s.SendError(id, "missing command argument")
	}

	argv := strings.Fields(command)
	if len(argv) == 0 {
		return s.SendError(id, "invalid command")
	}

	s.Logger().WithField("argv0", argv[0]).Debug("exec")

	var (
		bout bytes.Buffer
		berr bytes.Buffer
	)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = s.Cwd()
	cmd.Stdout = &bout
	cmd.Stderr = &berr

	var code uint64

	if er := cmd.Run(); er != nil {
		var ee *exec.ExitError

		switch {
		case errors.As(er, &ee):
			if ee.ExitCode() >= 0 {
				code = uint64(ee.ExitCode())
			} else {
				// killed by signal
				code = uint64(128 + signalOf(ee))
			}
		default:
			// the exec itself failed (not found, not executable)
			code = 127
			berr.WriteString("exec: " + sysErrString(er) + "\n")
		}
	}

	m := libmsg.NewWriter(256 + bout.Len() + berr.Len())

	m.PutMapHeader(3)

	m.PutString("stdout")
	m.PutBin(bout.Bytes())

	m.PutString("stderr")
	m.PutBin(berr.Bytes())

	m.PutString("exit_code")
	m.PutUint(code)

	return s.SendResponse(id, m.Bytes())
}
