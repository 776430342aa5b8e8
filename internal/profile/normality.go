package profile

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// testNormality runs a Jarque-Bera style check built from sample
// skewness and excess kurtosis, with the p-value taken from a
// chi-squared distribution with two degrees of freedom.
func testNormality(values []float64, mean, stdDev float64) (isNormal bool, pValue float64) {
	n := float64(len(values))
	if len(values) < 8 || stdDev == 0 || math.IsNaN(stdDev) {
		return false, 1.0
	}

	skew := skewness(values, mean, stdDev)
	kurt := kurtosis(values, mean, stdDev) - 3

	jb := n / 6 * (skew*skew + kurt*kurt/4)
	chi2 := distuv.ChiSquared{K: 2}
	pValue = 1 - chi2.CDF(jb)
	return pValue > 0.05, pValue
}

// skewness computes the adjusted Fisher-Pearson skewness coefficient.
func skewness(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	if n < 3 || stdDev == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// kurtosis computes sample kurtosis (total, not excess).
func kurtosis(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	if n < 4 || stdDev == 0 {
		return 3.0
	}

	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	return sum / n
}
