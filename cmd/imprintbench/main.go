// Command imprintbench drives a synthetic workload through both
// naivememo's whole-argument cache and memo.Memoizer's access-pattern
// cache, and reports how many times the underlying computation actually
// ran under each.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("imprintbench failed", zap.Error(err))
		os.Exit(1)
	}
}

func printLine(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
