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

// Package commands implements the agent command surface: filesystem
// navigation, file transfer, process and socket enumeration, and the
// system introspection commands of the embbridge protocol.
//
// Every handler observes the session ABI: it parses its borrowed args
// payload, emits exactly one terminal output for the request id (a unit
// response, an error response, or a response followed by a data stream),
// and returns a non-nil error only on terminal I/O failure.
package commands

import (
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

const (
	// ChunkSize is the bulk transfer chunk size.
	ChunkSize = 64 * 1024
)

// Table returns the closed command set of the agent. Every name appears
// exactly once; lookup order follows the historical dispatch order.
func Table() libssn.Table {
	return libssn.Table{
		{Name: "ls", Fct: cmdLs},
		{Name: "cat", Fct: cmdCat},
		{Name: "pwd", Fct: cmdPwd},
		{Name: "cd", Fct: cmdCd},
		{Name: "realpath", Fct: cmdRealpath},
		{Name: "pull", Fct: cmdPull},
		{Name: "push", Fct: cmdPush},
		{Name: "exec", Fct: cmdExec},
		{Name: "mkdir", Fct: cmdMkdir},
		{Name: "rm", Fct: cmdRm},
		{Name: "mv", Fct: cmdMv},
		{Name: "cp", Fct: cmdCp},
		{Name: "chmod", Fct: cmdChmod},
		{Name: "touch", Fct: cmdTouch},
		{Name: "uname", Fct: cmdUname},
		{Name: "ps", Fct: cmdPs},
		{Name: "ss", Fct: cmdSs},
		{Name: "env", Fct: cmdEnv},
		{Name: "mtd", Fct: cmdMtd},
		{Name: "firmware", Fct: cmdNotImplemented},
		{Name: "hexdump", Fct: cmdHexdump},
		{Name: "kill-agent", Fct: cmdKillAgent},
		{Name: "reboot", Fct: cmdReboot},
		{Name: "whoami", Fct: cmdWhoami},
		{Name: "dmesg", Fct: cmdDmesg},
		{Name: "strings", Fct: cmdStrings},
		{Name: "cpuinfo", Fct: cmdCpuinfo},
		{Name: "ip_addr", Fct: cmdIpAddr},
		{Name: "ip_route", Fct: cmdIpRoute},
	}
}

func cmdNotImplemented(s libssn.Session, id uint64, _ []byte) error {
	if err := s.SendError(id, "not implemented"); err != nil {
		return err
	}

	return nil
}
