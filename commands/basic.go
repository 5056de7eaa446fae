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
	"io/fs"
	"os"
	"path/filepath"

	libmsg "github.com/Necromancer-Labs/embbridge/encoding/msgpack"
	libptl "github.com/Necromancer-Labs/embbridge/protocol"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// catMaxSize bounds what a single cat response may carry: the content must
// still fit in one frame next to the envelope around it.
const catMaxSize = libptl.MaxMessageSize - 1024

// cmdLs lists a directory with per-entry metadata. Without a path argument
// the session cwd is listed.
func cmdLs(s libssn.Session, id uint64, args []byte) error {
	path := s.Cwd()

	if p, ok := libssn.GetStringArg(args, "path"); ok {
		path = s.ResolvePath(p)
	}

	ents, err := os.ReadDir(path)
	if err != nil {
		return s.SendError(id, sysErrString(err))
	}

	m := libmsg.NewWriter(4096)

	m.PutMapHeader(1)
	m.PutString("entries")
	m.PutArrayHeader(len(ents))

	for _, ent := range ents {
		var (
			size  uint64
			mode  uint64
			mtime uint64
		)

		// metadata of the entry itself, following symlinks like stat
		if st, er := os.Stat(filepath.Join(path, ent.Name())); er == nil {
			size = uint64(st.Size())
			mode = uint64(st.Mode().Perm())
			mtime = uint64(st.ModTime().Unix())
		}

		m.PutMapHeader(5)

		m.PutString("name")
		m.PutString(ent.Name())

		m.PutString("type")
		m.PutString(entryType(ent))

		m.PutString("size")
		m.PutUint(size)

		m.PutString("mode")
		m.PutUint(mode)

		m.PutString("mtime")
		m.PutUint(mtime)
	}

	return s.SendResponse(id, m.Bytes())
}

func entryType(ent fs.DirEntry) string {
	switch {
	case ent.IsDir():
		return "dir"
	case ent.Type()&fs.ModeSymlink != 0:
		return "link"
	case ent.Type().IsRegular():
		return "file"
	}

	return "other"
}

// cmdPwd reports the session working directory.
func cmdPwd(s libssn.Session, id uint64, _ []byte) error {
	m := libmsg.NewWriter(256)

	m.PutMapHeader(1)
	m.PutString("path")
	m.PutString(s.Cwd())

	return s.SendResponse(id, m.Bytes())
}

// cmdCd changes the session working directory. The new cwd is always
// canonical: symlinks resolved, dot-dot collapsed.
func cmdCd(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	st, er := os.Stat(path)
	if er != nil {
		return s.SendError(id, "no such directory")
	}

	if !st.IsDir() {
		return s.SendError(id, "not a directory")
	}

	real, er := filepath.EvalSymlinks(path)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	if !filepath.IsAbs(real) {
		if real, er = filepath.Abs(real); er != nil {
			return s.SendError(id, sysErrString(er))
		}
	}

	s.SetCwd(real)
	s.Logger().WithField("cwd", real).Debug("changed directory")

	m := libmsg.NewWriter(256)

	m.PutMapHeader(1)
	m.PutString("path")
	m.PutString(real)

	return s.SendResponse(id, m.Bytes())
}

// cmdRealpath resolves a path to its canonical absolute form.
func cmdRealpath(s libssn.Session, id uint64, args []byte) error {
	path, ok, err := pathArg(s, id, args)
	if !ok {
		return err
	}

	real, er := filepath.EvalSymlinks(path)
	if er != nil {
		return s.SendError(id, sysErrString(er))
	}

	if !filepath.IsAbs(real) {
		if real, er = filepath.Abs(real); er != nil {
			return s.SendError(id, sysErrString(er))
		}
	}

	m := libmsg.NewWriter(256)

	m.PutMapHeader(1)
	m.PutString("path")
	m.PutString(real)

	return s.SendResponse(id, m.Bytes())
}

// cmdCat returns the whole file content in one response. Regular files are
// sized up front; virtual files (/proc, /sys) report no size and are read
// to EOF with a growing buffer bounded by the frame ceiling.
func cmdCat(s libssn.Session, id uint64, args []byte) error {
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

	var size int64 = -1
	if st, e := f.Stat(); e == nil && st.Mode().IsRegular() {
		size = st.Size()
	}

	var content []byte

	if size > 0 {
		if size > catMaxSize {
			return s.SendError(id, "file too large")
		}

		content = make([]byte, size)

		n, e := io.ReadFull(f, content)
		if e != nil && e != io.ErrUnexpectedEOF {
			return s.SendError(id, "read error")
		}
		content = content[:n]
	} else {
		// virtual or empty file: read until EOF, bounded
		content, er = readAllBounded(f, catMaxSize)
		if er != nil {
			return s.SendError(id, sysErrString(er))
		}
	}

	m := libmsg.NewWriter(len(content) + 64)

	m.PutMapHeader(2)

	m.PutString("content")
	m.PutBin(content)

	m.PutString("size")
	m.PutUint(uint64(len(content)))

	return s.SendResponse(id, m.Bytes())
}

// readAllBounded reads until EOF like io.ReadAll but fails once the
// content would exceed the given limit.
func readAllBounded(r io.Reader, limit int) ([]byte, error) {
	buf := make([]byte, 0, 4096)

	for {
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}

		n, err := r.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]

		if len(buf) > limit {
			return nil, errFileTooLarge
		}

		if err == io.EOF {
			return buf, nil
		}

		if err != nil {
			return nil, err
		}
	}
}
