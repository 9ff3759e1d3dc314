// +build linux darwin

package ingest

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile memory-maps f read-only for its full size, matching how large
// OTF2 archives are scanned without fully materializing them into the heap.
// The returned slice must be released with munmapFile.
func mmapFile(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}
	return unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
}

func munmapFile(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
