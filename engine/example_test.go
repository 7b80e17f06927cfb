package engine_test

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/tspforge/engine"
	"github.com/katalvlaran/tspforge/matrix"
)

func ExampleEngine_Solve() {
	m, _ := matrix.NewDenseFrom([][]float64{
		{0, 10, 15, 20},
		{10, 0, 35, 25},
		{15, 35, 0, 30},
		{20, 25, 30, 0},
	})
	e, _ := engine.New(engine.DefaultConfig())
	defer e.Close()

	res, err := e.Solve(context.Background(), m, engine.Request{TimeBudget: time.Second})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Strategy, res.Distance, res.Optimal)
	// Output: exact 80 true
}

func ExampleSelectStrategy() {
	fmt.Println(engine.SelectStrategy(10, 2*time.Second, 0.3).Strategy)
	fmt.Println(engine.SelectStrategy(200, 500*time.Millisecond, 0.8).Strategy)
	// Output:
	// exact
	// constructive
}
