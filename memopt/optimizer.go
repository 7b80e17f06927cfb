package memopt

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/katalvlaran/tspforge/matrix"
)

// Step names one transformation applied by Optimize.
type Step string

const (
	StepFloat32    Step = "float32"
	StepTriangular Step = "triangular"
	StepMmap       Step = "mmap"
)

const (
	// DefaultThresholdBytes is the float64 footprint from which Optimize acts (64 MiB, n ≈ 2900).
	DefaultThresholdBytes int64 = 64 << 20
	// DefaultBudgetBytes is the advisory heap budget (4 GiB).
	DefaultBudgetBytes int64 = 4 << 30
	// DefaultSymmetryTol is the tolerance of the symmetry probe.
	DefaultSymmetryTol = 1e-9
)

var (
	// ErrInvalidConfig reports settings outside their domain.
	ErrInvalidConfig = errors.New("memopt: invalid config")

	// ErrMmapUnsupported is returned by the file-backed storage on platforms
	// without mmap. Optimize recovers by keeping the matrix on the heap.
	ErrMmapUnsupported = errors.New("memopt: mmap not supported on this platform")
)

// Config configures an Optimizer. Zero fields take the defaults.
type Config struct {
	// ThresholdBytes: matrices with n²·8 below it are left as they are.
	ThresholdBytes int64
	// BudgetBytes is the advisory heap budget shared by all live results;
	// a single result larger than it is mapped to a file.
	BudgetBytes int64
	// DisableMmap keeps every result on the heap.
	DisableMmap bool
	// Dir holds the mapped files; "" means os.TempDir().
	Dir string
	// SymmetryTol is the absolute tolerance used to detect symmetry.
	SymmetryTol float64
	// Logger receives budget warnings; nil means logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// Optimizer applies the footprint reductions and tracks the advisory budget.
// It is safe for concurrent use.
type Optimizer struct {
	cfg    Config
	budget *semaphore.Weighted
	inUse  atomic.Int64
	log    logrus.FieldLogger
}

// New validates cfg, fills defaults and returns an Optimizer.
func New(cfg Config) (*Optimizer, error) {
	if cfg.ThresholdBytes < 0 || cfg.BudgetBytes < 0 || cfg.SymmetryTol < 0 {
		return nil, fmt.Errorf("%w: threshold=%d budget=%d tol=%g",
			ErrInvalidConfig, cfg.ThresholdBytes, cfg.BudgetBytes, cfg.SymmetryTol)
	}
	if cfg.ThresholdBytes == 0 {
		cfg.ThresholdBytes = DefaultThresholdBytes
	}
	if cfg.BudgetBytes == 0 {
		cfg.BudgetBytes = DefaultBudgetBytes
	}
	if cfg.SymmetryTol == 0 {
		cfg.SymmetryTol = DefaultSymmetryTol
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Optimizer{cfg: cfg, budget: semaphore.NewWeighted(cfg.BudgetBytes), log: log}, nil
}

// Needed reports whether an n×n matrix crosses the threshold.
func (o *Optimizer) Needed(n int) bool {
	return matrix.DenseBytes(n) >= o.cfg.ThresholdBytes
}

// InUse is the number of heap bytes currently reserved by live results.
func (o *Optimizer) InUse() int64 { return o.inUse.Load() }

// Optimized is the result of Optimize. Close it when the solve is done.
type Optimized struct {
	// Matrix answers lookups for the solvers. It is the input itself when no
	// step applied.
	Matrix matrix.Matrix
	// Steps lists the applied transformations in order.
	Steps []Step
	// OriginalBytes is the n²·8 float64 footprint.
	OriginalBytes int64
	// Bytes is the footprint of Matrix (file size for mapped storage).
	Bytes int64

	once    sync.Once
	release func() error
}

// Close releases the budget reservation and, for mapped storage, unmaps and
// removes the backing file. It is idempotent.
func (r *Optimized) Close() error {
	var err error
	r.once.Do(func() {
		if r.release != nil {
			err = r.release()
		}
	})

	return err
}

// Optimize returns a compact read-only view of m. m is never modified.
//
// Stage 1 decides symmetry; Stage 2 maps to a file when the compact size
// exceeds the budget; Stage 3 otherwise builds Dense32 or Triangular on the
// heap and reserves its size.
//
// Complexity: O(n²) time; the heap result takes n²·4 or n(n+1)/2·4 bytes.
func (o *Optimizer) Optimize(m matrix.Matrix) (*Optimized, error) {
	if m == nil {
		return nil, matrix.ErrNilMatrix
	}
	n := m.Rows()
	if n != m.Cols() {
		return nil, fmt.Errorf("memopt: %dx%d: %w", n, m.Cols(), matrix.ErrNonSquare)
	}
	res := &Optimized{Matrix: m, OriginalBytes: matrix.DenseBytes(n), Bytes: matrix.DenseBytes(n)}
	if !o.Needed(n) {
		return res, nil
	}
	log := o.log.WithField("size", n)

	// Stage 1 - layout.
	sym := matrix.IsSymmetric(m, o.cfg.SymmetryTol)
	compact := int64(n) * int64(n) * 4
	res.Steps = append(res.Steps, StepFloat32)
	if sym {
		compact = int64(matrix.PackedLen(n)) * 4
		res.Steps = append(res.Steps, StepTriangular)
	}

	// Stage 2 - file backing.
	if compact > o.cfg.BudgetBytes && !o.cfg.DisableMmap {
		mp, err := NewMapped(m, sym, o.cfg.Dir)
		switch {
		case err == nil:
			res.Matrix, res.Bytes = mp, mp.Bytes()
			res.Steps = append(res.Steps, StepMmap)
			res.release = mp.Close
			log.WithFields(logrus.Fields{"bytes": res.Bytes, "path": mp.Path()}).Info("matrix mapped to file")

			return res, nil
		case errors.Is(err, ErrMmapUnsupported):
			log.WithError(err).Warn("keeping matrix on heap")
		default:
			return nil, err
		}
	}

	// Stage 3 - heap.
	var err error
	if sym {
		res.Matrix, err = matrix.NewTriangular(m)
	} else {
		res.Matrix, err = matrix.Downcast(m)
	}
	if err != nil {
		return nil, err
	}
	res.Bytes = compact

	if o.budget.TryAcquire(compact) {
		o.inUse.Add(compact)
		res.release = func() error {
			o.budget.Release(compact)
			o.inUse.Add(-compact)
			return nil
		}
	} else {
		log.WithFields(logrus.Fields{
			"bytes":  compact,
			"in_use": o.inUse.Load(),
			"budget": o.cfg.BudgetBytes,
		}).Warn("memory budget exceeded")
	}
	log.WithFields(logrus.Fields{"from": res.OriginalBytes, "to": res.Bytes, "steps": res.Steps}).Debug("matrix optimized")

	return res, nil
}
