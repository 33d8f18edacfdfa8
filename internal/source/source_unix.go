//go:build darwin || freebsd || linux

package source

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile memory-maps f's contents read-only (spec §5, §B.1). A
// zero-length file is never handed to unix.Mmap (mapping zero bytes is
// rejected by the kernel); Close on such a File is then a close-only, the
// same as it is on the io.ReadAll fallback.
func mapFile(f *os.File, size int64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	return unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
}

func unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Munmap(data)
}
