//go:build unix

package memopt

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// region is a read-only shared mapping of a whole file.
type region struct {
	f    *os.File
	path string
	data []byte
}

func mapFile(f *os.File, size int) (*region, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	// Solver access is random; the hint is advisory.
	if err = unix.Madvise(data, unix.MADV_RANDOM); err != nil && !errors.Is(err, unix.EINVAL) {
		_ = unix.Munmap(data)
		return nil, err
	}

	return &region{f: f, path: f.Name(), data: data}, nil
}

func (r *region) floats() []float32 {
	if len(r.data) == 0 {
		return nil
	}

	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), len(r.data)/4)
}

func (r *region) close() error {
	if r.f == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	if cerr := r.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if rerr := os.Remove(r.path); rerr != nil && err == nil {
		err = rerr
	}
	r.f = nil

	return err
}
