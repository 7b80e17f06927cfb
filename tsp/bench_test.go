// Package tsp_test - benchmarks for the solvers.
//
// Inputs are built outside the timer from fixed seeds; sinks keep results alive.
package tsp_test

import (
	"testing"

	"github.com/katalvlaran/tspforge/tsp"
)

var (
	sinkRes  tsp.Result
	sinkCost float64
)

func benchSolve(b *testing.B, st tsp.Strategy, n int) {
	b.Helper()
	m := euclid(b, n, seedDet)
	opts := tsp.DefaultOptions()
	opts.Strategy = st
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := tsp.Solve(m, opts)
		if err != nil {
			b.Fatal(err)
		}
		sinkRes = res
	}
}

func BenchmarkExact_n12(b *testing.B)         { benchSolve(b, tsp.Exact, 12) }
func BenchmarkBeam_n50(b *testing.B)          { benchSolve(b, tsp.Beam, 50) }
func BenchmarkConstructive_n200(b *testing.B) { benchSolve(b, tsp.Constructive, 200) }
func BenchmarkAnneal_n100(b *testing.B)       { benchSolve(b, tsp.Anneal, 100) }
func BenchmarkNearest_n500(b *testing.B)      { benchSolve(b, tsp.Nearest, 500) }

func BenchmarkTwoOpt_n200(b *testing.B) {
	m := euclid(b, 200, seedDet)
	start := shuffledTour(200, seedDet)
	opts := tsp.DefaultOptions()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, c, _, err := tsp.TwoOpt(m, start, opts)
		if err != nil {
			b.Fatal(err)
		}
		sinkCost = c
	}
}

func BenchmarkLowerBound_n100(b *testing.B) {
	m := euclid(b, 100, seedDet)
	cfg := tsp.DefaultBoundConfig()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lb, err := tsp.LowerBound(m, cfg)
		if err != nil {
			b.Fatal(err)
		}
		sinkCost = lb
	}
}
