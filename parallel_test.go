package isp

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelFor_CoversEveryIndexOnce(t *testing.T) {
	t.Parallel()

	for _, total := range []int{0, 1, parallelThreshold - 1, parallelThreshold, 5*parallelThreshold + 3} {
		hits := make([]int32, total)
		parallelFor(total, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, n := range hits {
			if n != 1 {
				assert.Failf(t, "index visited wrong number of times", "total %d, index %d: %d", total, i, n)
				break
			}
		}
	}
}
