package main

import (
	"fmt"

	"github.com/on-the-ground/imprintcache/internal/naivememo"
	"github.com/on-the-ground/imprintcache/memo"
	"github.com/on-the-ground/imprintcache/tracer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type record struct {
	ID      int
	Region  string
	Noise   int // varies per call; a naive whole-object key treats this as significant
	Comment string
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var rounds int

	root := &cobra.Command{
		Use:   "imprintbench",
		Short: "Compare naive whole-argument memoization against access-pattern memoization",
		RunE: func(cmd *cobra.Command, args []string) error {
			runBenchmark(logger, rounds)
			return nil
		},
	}
	root.Flags().IntVar(&rounds, "rounds", 100, "number of calls to issue per cache strategy")

	return root
}

func runBenchmark(logger *zap.Logger, rounds int) {
	naiveCount := 0
	naiveFn := naivememo.Wrap(func(r record) string {
		naiveCount++
		return fmt.Sprintf("region=%s", r.Region)
	}, uint32(rounds+1))

	memoCount := 0
	memoFn := memo.New(func(v *tracer.View) (any, error) {
		memoCount++
		region, err := v.Get("Region")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("region=%v", region), nil
	}, memo.WithLogger(logger))

	for i := 0; i < rounds; i++ {
		r := record{ID: i, Region: "ap-northeast-2", Noise: i, Comment: fmt.Sprintf("call %d", i)}
		naiveFn(r)
		if _, err := memoFn.Call(r); err != nil {
			logger.Error("memo call failed", zap.Error(err))
		}
	}

	printLine("naive whole-argument cache: %d distinct computations over %d calls", naiveCount, rounds)
	printLine("imprint access-pattern cache: %d distinct computations over %d calls", memoCount, rounds)
}
