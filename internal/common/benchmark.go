package common

import (
	"log/slog"
	"time"
)

type Benchmarker struct {
	start  time.Time
	label  string
	logger *slog.Logger
}

func RuntimeBenchmark[T any](logger *slog.Logger, label string, functionUnderTest func() (T, error)) (T, error) {
	benchmarker := NewBenchmarker(logger, label)
	defer benchmarker.Close()
	return functionUnderTest()
}

func NewBenchmarker(logger *slog.Logger, label string) *Benchmarker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Benchmarker{start: time.Now(), label: label, logger: logger}
}

func (benchmarker *Benchmarker) Elapsed() time.Duration {
	return time.Since(benchmarker.start)
}

func (benchmarker *Benchmarker) Close() {
	benchmarker.logger.Debug("benchmark",
		slog.String("label", benchmarker.label),
		slog.Duration("duration", benchmarker.Elapsed()))
}
