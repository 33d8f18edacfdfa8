//go:build !(darwin || freebsd || linux)

package source

import (
	"io"
	"os"
)

// mapFile falls back to a plain read on platforms unix.Mmap doesn't
// cover (spec §A.3).
func mapFile(f *os.File, size int64) ([]byte, error) {
	return io.ReadAll(f)
}

func unmap(data []byte) error { return nil }
