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
	"bufio"
	"fmt"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// memGetInfo is the MTD MEMGETINFO ioctl request, _IOR('M', 1,
// mtd_info_user) with a 32-byte payload.
const memGetInfo = 0x80204d01

// mtdInfoUser mirrors struct mtd_info_user from <mtd/mtd-user.h>.
type mtdInfoUser struct {
	Typ       uint8
	Flags     uint32
	Size      uint32
	Erasesize uint32
	Writesize uint32
	Oobsize   uint32
	Padding   uint64
}

// mtdSize returns the true size of an MTD character or block device whose
// stat size is zero, or 0 when the path is not an MTD device or its size
// cannot be discovered. The ioctl is tried first, then the /proc/mtd
// table, keyed by the device number in the path.
func mtdSize(path string) uint64 {
	if !strings.HasPrefix(path, "/dev/mtd") {
		return 0
	}

	if n := mtdSizeIoctl(path); n > 0 {
		return n
	}

	return mtdSizeProc(path)
}

func mtdSizeIoctl(path string) uint64 {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return 0
	}

	defer func() {
		_ = unix.Close(fd)
	}()

	var info mtdInfoUser

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), memGetInfo, uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return 0
	}

	return uint64(info.Size)
}

func mtdSizeProc(path string) uint64 {
	num := -1

	// device number is the first digit run in the path
	for i := 0; i < len(path); i++ {
		if path[i] >= '0' && path[i] <= '9' {
			if _, err := fmt.Sscanf(path[i:], "%d", &num); err != nil {
				return 0
			}
			break
		}
	}

	if num < 0 {
		return 0
	}

	f, err := os.Open("/proc/mtd")
	if err != nil {
		return 0
	}

	defer func() {
		_ = f.Close()
	}()

	sc := bufio.NewScanner(f)

	// entries look like: mtd0: 00040000 00010000 "bootloader"
	for sc.Scan() {
		var (
			n int
			s uint64
		)

		if _, err = fmt.Sscanf(sc.Text(), "mtd%d: %x", &n, &s); err == nil && n == num {
			return s
		}
	}

	return 0
}
