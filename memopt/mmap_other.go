//go:build !unix

package memopt

import "os"

type region struct {
	path string
}

func mapFile(*os.File, int) (*region, error) { return nil, ErrMmapUnsupported }

func (r *region) floats() []float32 { return nil }

func (r *region) close() error { return nil }
