package common

import (
	"fmt"
	"runtime"
	"time"
)

// MemoryStats holds memory usage statistics.
type MemoryStats struct {
	AllocBytes      uint64  // Currently allocated bytes
	TotalAllocBytes uint64  // Total allocated bytes (cumulative)
	SysBytes        uint64  // Total bytes from system
	Mallocs         uint64  // Cumulative heap allocations
	NumGC           uint32  // Number of GC runs
	GCCPUFraction   float64 // Fraction of CPU time spent in GC
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		SysBytes:        m.Sys,
		Mallocs:         m.Mallocs,
		NumGC:           m.NumGC,
		GCCPUFraction:   m.GCCPUFraction,
	}
}

// String returns a formatted string representation of memory stats.
func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Sys: %d KB, GC: %d (%.2f%% CPU)",
		m.AllocBytes/1024,
		m.TotalAllocBytes/1024,
		m.SysBytes/1024,
		m.NumGC,
		m.GCCPUFraction*100)
}

// BenchmarkResult holds benchmark results.
type BenchmarkResult struct {
	Name         string
	Duration     time.Duration
	MemoryBefore MemoryStats
	MemoryAfter  MemoryStats
	Iterations   int
	Error        error
}

// Average returns the mean duration per iteration.
func (br BenchmarkResult) Average() time.Duration {
	if br.Iterations <= 0 {
		return 0
	}
	return br.Duration / time.Duration(br.Iterations)
}

// AllocatedPerOp returns the bytes allocated per iteration.
func (br BenchmarkResult) AllocatedPerOp() uint64 {
	if br.Iterations <= 0 || br.MemoryAfter.TotalAllocBytes < br.MemoryBefore.TotalAllocBytes {
		return 0
	}
	return (br.MemoryAfter.TotalAllocBytes - br.MemoryBefore.TotalAllocBytes) / uint64(br.Iterations) //nolint:gosec // G115: iterations is positive
}

// String returns a formatted string representation of the benchmark result.
func (br BenchmarkResult) String() string {
	if br.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", br.Name, br.Error)
	}

	return fmt.Sprintf("%s: %d iterations, avg: %v, total: %v, alloc: %d KB/op",
		br.Name, br.Iterations, br.Average(), br.Duration, br.AllocatedPerOp()/1024)
}

// Measure runs fn iterations times and records duration and allocations.
// The first error stops the run.
func Measure(name string, iterations int, fn func() error) BenchmarkResult {
	runtime.GC()
	before := GetMemoryStats()

	timer := NewTimer()
	done := 0
	var err error
	for range iterations {
		if err = fn(); err != nil {
			break
		}
		done++
	}
	duration := timer.Stop()

	return BenchmarkResult{
		Name:         name,
		Duration:     duration,
		MemoryBefore: before,
		MemoryAfter:  GetMemoryStats(),
		Iterations:   done,
		Error:        err,
	}
}
