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
	"time"

	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// cmdRm removes a file or an empty directory.
func cmdRm(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	if _, er := os.Stat(path); er != nil {
		return s.SendError(id, sysErrString(er))
	}

	// unlink for files, rmdir for directories: a populated directory
	// must fail, never recurse
	if er := os.Remove(path); er != nil {
		return s.SendError(id, sysErrString(er))
	}

	return sendUnit(s, id)
}

// cmdMv renames a file or directory, across directories on the same
// filesystem.
func cmdMv(s libssn.Session, id uint64, args []byte) error {
	src, ok := libssn.GetStringArg(args, "src")
	if !ok {
		return s.SendError(id, "missing src argument")
	}

	dst, ok := libssn.GetStringArg(args, "dst")
	if !ok {
		return s.SendError(id, "missing dst argument")
	}

	var (
		rsrc = s.ResolvePath(src)
		rdst = s.ResolvePath(dst)
	)

	if _, er := os.Stat(rsrc); er != nil {
		return s.SendError(id, "source does not exist")
	}

	if er := os.Rename(rsrc, rdst); er != nil {
		return s.SendError(id, sysErrString(er))
	}

	return sendUnit(s, id)
}

// cmdMkdir creates a directory, default mode 0755.
func cmdMkdir(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	mode := uint64(0o755)
	if v, got := libssn.GetUintArg(args, "mode"); got {
		mode = v
	}

	if er := os.Mkdir(path, os.FileMode(mode)); er != nil {
		return s.SendError(id, sysErrString(er))
	}

	return sendUnit(s, id)
}

// cmdChmod changes file permissions. The mode argument is required.
func cmdChmod(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	mode, got := libssn.GetUintArg(args, "mode")
	if !got {
		return s.SendError(id, "missing mode argument")
	}

	if er := os.Chmod(path, os.FileMode(mode)); er != nil {
		return s.SendError(id, sysErrString(er))
	}

	return sendUnit(s, id)
}

// cmdCp copies a regular file, preserving its permissions. A failed copy
// unlinks the partial destination.
func cmdCp(s libssn.Session, id uint64, args []byte) error {
	src, ok := libssn.GetStringArg(args, "src")
	if !ok {
		return s.SendError(id, "missing src argument")
	}

	dst, ok := libssn.GetStringArg(args, "dst")
	if !ok {
		return s.SendError(id, "missing dst argument")
	}

	var (
		rsrc = s.ResolvePath(src)
		rdst = s.ResolvePath(dst)
	)

	fsrc, er := os.Open(rsrc)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	defer func() {
		_ = fsrc.Close()
	}()

	st, er := fsrc.Stat()
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	if st.IsDir() {
		return s.SendError(id, "source is a directory")
	}

	fdst, er := os.Create(rdst)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	if _, er = io.Copy(fdst, fsrc); er != nil {
		_ = fdst.Close()
		_ = os.Remove(rdst)
		return s.SendError(id, sysErrString(er))
	}

	if er = fdst.Close(); er != nil {
		_ = os.Remove(rdst)
		return s.SendError(id, sysErrString(er))
	}

	_ = os.Chmod(rdst, st.Mode().Perm())

	return sendUnit(s, id)
}

// cmdTouch creates an empty file when the path is absent, otherwise bumps
// its access and modification times to now.
func cmdTouch(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	if _, er := os.Stat(path); er != nil {
		if !os.IsNotExist(er) {
			return s.SendError(id, sysErrString(er))
		}

		f, e := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if e != nil {
			return s.SendError(id, sysErrString(e))
		}

		_ = f.Close()

		return sendUnit(s, id)
	}

	now := time.Now()
	if er := os.Chtimes(path, now, now); er != nil {
		return s.SendError(id, sysErrString(er))
	}

	return sendUnit(s, id)
}
