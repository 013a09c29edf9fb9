package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMemoryStats(t *testing.T) {
	stats := GetMemoryStats()
	assert.Positive(t, stats.AllocBytes)
	assert.Positive(t, stats.TotalAllocBytes)
	assert.Positive(t, stats.SysBytes)

	str := stats.String()
	assert.Contains(t, str, "Alloc:")
	assert.Contains(t, str, "KB")
}

func TestBenchmarkResult(t *testing.T) {
	result := BenchmarkResult{
		Name:         "test_result",
		Duration:     100 * time.Millisecond,
		Iterations:   10,
		MemoryBefore: MemoryStats{TotalAllocBytes: 1000},
		MemoryAfter:  MemoryStats{TotalAllocBytes: 21480},
	}

	assert.Equal(t, 10*time.Millisecond, result.Average())
	assert.Equal(t, uint64(2048), result.AllocatedPerOp())

	str := result.String()
	assert.Contains(t, str, "test_result")
	assert.Contains(t, str, "10 iterations")
	assert.Contains(t, str, "10ms")
	assert.Contains(t, str, "100ms")
	assert.Contains(t, str, "2 KB/op")

	errorResult := BenchmarkResult{
		Name:  "error_result",
		Error: errors.New("test error"),
	}
	str = errorResult.String()
	assert.Contains(t, str, "error_result")
	assert.Contains(t, str, "ERROR")
	assert.Contains(t, str, "test error")

	assert.Zero(t, BenchmarkResult{}.Average())
	assert.Zero(t, BenchmarkResult{}.AllocatedPerOp())
}

func TestMeasure(t *testing.T) {
	calls := 0
	res := Measure("count", 5, func() error {
		calls++
		return nil
	})
	assert.Equal(t, 5, calls)
	assert.Equal(t, 5, res.Iterations)
	assert.Equal(t, "count", res.Name)
	assert.NoError(t, res.Error)

	boom := errors.New("boom")
	calls = 0
	res = Measure("fail", 5, func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, res.Iterations)
	assert.ErrorIs(t, res.Error, boom)
}

func BenchmarkMemoryStatsRetrieval(b *testing.B) {
	for range b.N {
		GetMemoryStats()
	}
}
