// Package parallel provides chunked parallel iteration for row-disjoint work.
package parallel

import (
	"runtime"
	"sync"
)

// MinRows is the smallest row count worth splitting across goroutines.
// Below this the goroutine overhead dominates the work.
const MinRows = 64

// For executes f(i) for i in [0, n), splitting the range into contiguous
// chunks across worker goroutines. Falls back to sequential execution when n
// is below minChunk or only one CPU is available.
//
// Each index is visited exactly once and chunks are disjoint, so when f
// writes only to data owned by index i the result is bit-identical to a
// sequential loop.
func For(n, minChunk int, f func(i int)) {
	workers := runtime.NumCPU()
	if workers == 1 || n < minChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := max((n+workers-1)/workers, minChunk)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForRows runs f once per matrix row with the default minimum chunk size.
func ForRows(rows int, f func(r int)) {
	For(rows, MinRows, f)
}
