package isp

import (
	"runtime"
	"sync"
)

var float64Pool = sync.Pool{
	New: func() any {
		buf := make([]float64, 0)
		return &buf
	},
}

var boolPool = sync.Pool{
	New: func() any {
		buf := make([]bool, 0)
		return &buf
	},
}

var (
	workerSemOnce sync.Once
	workerSem     chan struct{}
)

// parallelFor splits [0, total) into contiguous ranges and runs fn on each.
// Small inputs run on the calling goroutine.
func parallelFor(total int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	if total < parallelThreshold {
		fn(0, total)
		return
	}
	workerSemOnce.Do(func() {
		workerSem = make(chan struct{}, max(runtime.GOMAXPROCS(0), 1))
	})
	workers := cap(workerSem)
	// Keep every chunk above the threshold so goroutine overhead stays negligible.
	if limit := total / (parallelThreshold / 4); workers > limit {
		workers = limit
	}
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * step
		end := start + step
		if end > total {
			end = total
		}
		if start >= end {
			break
		}
		workerSem <- struct{}{}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() { <-workerSem }()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

func getFloat64(n int) []float64 {
	bufPtr := float64Pool.Get().(*[]float64)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}

func putFloat64(buf []float64) {
	if buf == nil {
		return
	}
	buf = buf[:0]
	float64Pool.Put(&buf)
}

func getBool(n int) []bool {
	bufPtr := boolPool.Get().(*[]bool)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]bool, n)
	}
	return buf[:n]
}

func putBool(buf []bool) {
	if buf == nil {
		return
	}
	buf = buf[:0]
	boolPool.Put(&buf)
}
