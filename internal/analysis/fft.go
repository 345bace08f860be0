// Package analysis extracts frequency content from recorded probe
// trajectories. A driven sheet should ring at the oscillator frequency;
// the spectrum makes that visible (and makes drift obvious).
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data using the
// radix-2 Cooley-Tukey recursion. The input length must be a power of
// two; use PadToPow2 for arbitrary-length signals.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PadToPow2 returns data zero-padded to the next power-of-two length,
// after subtracting the mean so the DC bin does not swamp the spectrum.
func PadToPow2(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return data
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	size := 1
	for size < n {
		size <<= 1
	}

	padded := make([]float64, size)
	for i, v := range data {
		padded[i] = v - mean
	}
	return padded
}

// PowerSpectrum returns the magnitude of the first half of the FFT bins.
// The signal is mean-removed and padded, so any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(PadToPow2(data))
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the frequency in rad/s of the strongest
// spectral bin, given the sampling interval dt between samples.
// The DC bin is skipped.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}

	padded := PadToPow2(data)
	ps := PowerSpectrum(data)

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}

	// Bin k corresponds to k / (N*dt) cycles per second.
	hz := float64(best) / (float64(len(padded)) * dt)
	return 2 * math.Pi * hz
}
