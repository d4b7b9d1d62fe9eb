package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestS5PercentilePad exercises spec.md §8 scenario S5: a moving average
// with percentile padding should not be dragged down by a lone spike at
// the head of the series.
func TestS5PercentilePad(t *testing.T) {
	data := []float64{100, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	out := MovingAverageFilter(data, 3, PadPercentile)

	assert.Len(t, out, len(data))
	// The pad value (10th percentile of data) should be far below the
	// spike, so the first output window is not dominated by 100.
	assert.Less(t, out[0], 40.0)
}

// TestS6MinPad exercises spec.md §8 scenario S6: min-padding uses the
// series' minimum as the pad value.
func TestS6MinPad(t *testing.T) {
	data := []float64{5, 5, 5, 5, 5}
	out := MovingAverageFilter(data, 2, PadMin)

	// A constant series stays constant under any padding strategy.
	for _, v := range out {
		assert.InDelta(t, 5.0, v, 1e-9)
	}
}

func TestFind10thPercentileRankConvention(t *testing.T) {
	data := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	// n=10, k = floor(0.10*9) = 0 -> smallest element.
	assert.Equal(t, 1.0, find10thPercentile(data))
}

func TestFindMin(t *testing.T) {
	assert.Equal(t, 1.0, findMin([]float64{3, 1, 2}))
}

func TestMovingAverageFilterConstantSeries(t *testing.T) {
	data := []float64{2, 2, 2, 2, 2, 2}
	out := MovingAverageFilter(data, 3, PadPercentile)
	for _, v := range out {
		assert.InDelta(t, 2.0, v, 1e-9)
	}
}
