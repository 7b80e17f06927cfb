package memopt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/tspforge/matrix"
)

// Mapped is a read-only float32 matrix backed by a memory-mapped temporary
// file. The layout is row-major n×n, or the packed upper triangle of
// matrix.PackedIndex when built from a symmetric source.
//
// A Mapped must be closed; Close unmaps the region and deletes the file.
// Lookups after Close panic.
type Mapped struct {
	n      int
	packed bool
	data   []float32
	region *region
}

var (
	_ matrix.Matrix    = (*Mapped)(nil)
	_ matrix.Sizer     = (*Mapped)(nil)
	_ matrix.Flattener = (*Mapped)(nil)
)

// NewMapped streams m as float32 into a new file under dir ("" means
// os.TempDir()) and maps it read-only. With packed set only the upper
// triangle is written; the caller guarantees symmetry.
//
// Returns ErrMmapUnsupported where the platform has no mmap.
func NewMapped(m matrix.Matrix, packed bool, dir string) (*Mapped, error) {
	n := m.Rows()
	if n <= 0 || n != m.Cols() {
		return nil, fmt.Errorf("memopt: %dx%d: %w", n, m.Cols(), matrix.ErrNonSquare)
	}
	count := n * n
	if packed {
		count = matrix.PackedLen(n)
	}

	f, err := os.CreateTemp(dir, "tspforge-*.f32")
	if err != nil {
		return nil, fmt.Errorf("memopt: create backing file: %w", err)
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}
	if err = writeFloats(f, m, packed); err != nil {
		cleanup()
		return nil, err
	}

	r, err := mapFile(f, count*4)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &Mapped{n: n, packed: packed, data: r.floats(), region: r}, nil
}

// writeFloats writes the selected entries of m in native byte order.
func writeFloats(w io.Writer, m matrix.Matrix, packed bool) error {
	n := m.Rows()
	bw := bufio.NewWriterSize(w, 1<<20)
	var (
		buf  [4]byte
		v    float64
		err  error
		i, j int
	)
	for i = 0; i < n; i++ {
		j = 0
		if packed {
			j = i
		}
		for ; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return fmt.Errorf("memopt: read (%d,%d): %w", i, j, err)
			}
			binary.NativeEndian.PutUint32(buf[:], math.Float32bits(float32(v)))
			if _, err = bw.Write(buf[:]); err != nil {
				return fmt.Errorf("memopt: write backing file: %w", err)
			}
		}
	}

	return bw.Flush()
}

// Rows returns n.
func (m *Mapped) Rows() int { return m.n }

// Cols returns n.
func (m *Mapped) Cols() int { return m.n }

// Bytes is the size of the mapped region.
func (m *Mapped) Bytes() int64 { return int64(len(m.data)) * 4 }

// Packed reports whether the file holds only the upper triangle.
func (m *Mapped) Packed() bool { return m.packed }

// Path is the backing file name.
func (m *Mapped) Path() string { return m.region.path }

func (m *Mapped) index(i, j int) int {
	if m.packed {
		return matrix.PackedIndex(m.n, i, j)
	}

	return i*m.n + j
}

// At returns the value at (i, j), mirrored for packed storage.
func (m *Mapped) At(i, j int) (float64, error) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, fmt.Errorf("Mapped.At(%d,%d): %w", i, j, matrix.ErrOutOfRange)
	}

	return float64(m.data[m.index(i, j)]), nil
}

// Set always fails: mapped storage is read-only.
func (m *Mapped) Set(i, j int, _ float64) error {
	return fmt.Errorf("Mapped.Set(%d,%d): %w", i, j, matrix.ErrReadOnly)
}

// Clone copies the contents to the heap (Triangular or Dense32).
func (m *Mapped) Clone() matrix.Matrix {
	cp := make([]float32, len(m.data))
	copy(cp, m.data)
	if m.packed {
		t, _ := matrix.NewTriangularPacked(m.n, cp)
		return t
	}
	d, _ := matrix.NewDense32(m.n, m.n)
	for k, v := range cp {
		_ = d.Set(k/m.n, k%m.n, float64(v))
	}

	return d
}

// FlattenInto expands the contents into a row-major float64 buffer.
func (m *Mapped) FlattenInto(dst []float64) error {
	if len(dst) != m.n*m.n {
		return fmt.Errorf("Mapped.FlattenInto: len %d, want %d: %w", len(dst), m.n*m.n, matrix.ErrOutOfRange)
	}
	if !m.packed {
		for k, v := range m.data {
			dst[k] = float64(v)
		}

		return nil
	}
	k := 0
	for i := 0; i < m.n; i++ {
		for j := i; j < m.n; j++ {
			v := float64(m.data[k])
			dst[i*m.n+j], dst[j*m.n+i] = v, v
			k++
		}
	}

	return nil
}

// Close unmaps the region and removes the backing file.
func (m *Mapped) Close() error {
	m.data = nil

	return m.region.close()
}
