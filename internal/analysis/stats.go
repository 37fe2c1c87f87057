package analysis

import "math"

// Mean returns the arithmetic mean of values, or 0 when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if !math.IsInf(sum, 0) {
		return sum / float64(len(values))
	}

	// The sum overflowed; a running mean stays within the range of the inputs.
	mean := 0.0
	for i, v := range values {
		n := float64(i + 1)
		mean += v/n - mean/n
	}
	return mean
}

// StdDev is the population standard deviation of values, or 0 when empty.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	if sd := math.Sqrt(sumSquares / float64(len(values))); !math.IsInf(sd, 0) {
		return sd
	}

	// Squares overflowed; work in units of the largest magnitude instead.
	scale := 0.0
	for _, v := range values {
		scale = math.Max(scale, math.Abs(v))
	}
	sumSquares = 0
	for _, v := range values {
		d := v/scale - mean/scale
		sumSquares += d * d
	}
	return scale * math.Sqrt(sumSquares/float64(len(values)))
}

// Round rounds half away from zero to the given number of decimal places.
// Values too large to scale have no fractional part and are returned as is.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	if math.IsInf(v*scale, 0) {
		return v
	}
	return math.Round(v*scale) / scale
}
