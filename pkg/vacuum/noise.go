package vacuum

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// NoiseMetrics characterizes the high-frequency noise riding on a pressure
// trend. The trend is a degree-2 polynomial fit over the sample index; all
// metrics are computed on the detrended residual.
type NoiseMetrics struct {
	// RMS is the root-mean-square amplitude of the detrended residual.
	RMS float64 `json:"rms"`

	// PeakToPeak is the full range (max - min) of the detrended residual.
	PeakToPeak float64 `json:"peakToPeak"`

	// SNRdB is the signal-to-noise ratio in decibels, +Inf for a noiseless
	// signal.
	SNRdB float64 `json:"snrDb"`

	// DominantFrequency is the positive frequency bin (Hz) with the largest
	// power spectral density, 0 when no positive bin exists.
	DominantFrequency float64 `json:"dominantFrequency"`

	// PowerSpectrum and Frequencies are the positive-frequency power
	// spectral density and its bin frequencies in Hz.
	PowerSpectrum []float64 `json:"powerSpectrum"`
	Frequencies   []float64 `json:"frequencies"`

	// Detrended is the residual signal, same length as the input.
	Detrended []float64 `json:"detrended"`
}

// CalculateNoiseMetrics computes noise statistics and the noise power
// spectrum of a pressure signal sampled at sampleRateHz (non-positive rates
// fall back to 1 Hz).
//
// Signals shorter than 3 samples cannot support a quadratic trend fit; they
// return zeroed metrics and an all-zero residual rather than failing.
func CalculateNoiseMetrics(data []float64, sampleRateHz float64) NoiseMetrics {
	if sampleRateHz <= 0 {
		sampleRateHz = 1
	}

	n := len(data)
	if n < 3 {
		return NoiseMetrics{Detrended: make([]float64, n)}
	}

	detrended := detrendQuadratic(data)

	var sumSq, signalSq float64
	maxR, minR := detrended[0], detrended[0]
	for i, r := range detrended {
		sumSq += r * r
		signalSq += data[i] * data[i]
		if r > maxR {
			maxR = r
		}
		if r < minR {
			minR = r
		}
	}
	noisePower := sumSq / float64(n)
	signalPower := signalSq / float64(n)

	metrics := NoiseMetrics{
		RMS:        math.Sqrt(noisePower),
		PeakToPeak: maxR - minR,
		Detrended:  detrended,
	}

	// The QR detrend leaves rounding residue on the order of machine epsilon
	// times the signal magnitude even when the input carries no noise at all.
	// Residual power that far below the signal power is indistinguishable
	// from zero, so the signal counts as noiseless.
	if noisePower > signalPower*1e-24 {
		metrics.SNRdB = 10 * math.Log10(signalPower/noisePower)
	} else {
		metrics.SNRdB = math.Inf(1)
	}

	// Power spectral density over the positive bins of the real FFT.
	// Bin i corresponds to frequency i * sampleRate / n.
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, detrended)

	metrics.PowerSpectrum = make([]float64, 0, len(coeffs)-1)
	metrics.Frequencies = make([]float64, 0, len(coeffs)-1)

	dominant := 0.0
	maxPower := math.Inf(-1)
	for i := 1; i < len(coeffs); i++ {
		power := cmplx.Abs(coeffs[i])
		power *= power
		freq := fft.Freq(i) * sampleRateHz

		metrics.PowerSpectrum = append(metrics.PowerSpectrum, power)
		metrics.Frequencies = append(metrics.Frequencies, freq)

		if power > maxPower {
			maxPower = power
			dominant = freq
		}
	}
	metrics.DominantFrequency = dominant

	return metrics
}

// detrendQuadratic subtracts the least-squares degree-2 polynomial trend
// (sample index as predictor) from data. If the normal equations are
// ill-conditioned the fit degrades to subtracting the mean.
func detrendQuadratic(data []float64) []float64 {
	n := len(data)

	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x := float64(i)
		a.Set(i, 0, 1)
		a.Set(i, 1, x)
		a.Set(i, 2, x*x)
		b.SetVec(i, data[i])
	}

	out := make([]float64, n)

	var qr mat.QR
	qr.Factorize(a)
	var coeffs mat.VecDense
	if err := qr.SolveVecTo(&coeffs, false, b); err != nil {
		m := mean(data)
		for i, v := range data {
			out[i] = v - m
		}
		return out
	}

	c0, c1, c2 := coeffs.AtVec(0), coeffs.AtVec(1), coeffs.AtVec(2)
	for i, v := range data {
		x := float64(i)
		out[i] = v - (c0 + c1*x + c2*x*x)
	}
	return out
}
