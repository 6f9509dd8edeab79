package calculator

import "math"

// Mean returns the arithmetic mean of values, or NaN when values is empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MinMax scans values and returns the smallest and largest entries.
func MinMax(values []float64) (low, high float64) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return low, high
}
