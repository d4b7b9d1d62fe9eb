package dsp

import "math"

// section is one second-order stage of a Butterworth cascade, in Direct
// Form I, parameterized by the RBJ audio-EQ-cookbook low-pass formula
// (b0, b1, b2, a1, a2 already normalized by a0).
type section struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

func (s *section) process(x0 float64) float64 {
	y0 := s.b0*x0 + s.b1*s.x1 + s.b2*s.x2 - s.a1*s.y1 - s.a2*s.y2
	s.x2 = s.x1
	s.x1 = x0
	s.y2 = s.y1
	s.y1 = y0
	return y0
}

func (s *section) reset() {
	s.x1, s.x2, s.y1, s.y2 = 0, 0, 0, 0
}

// Biquad is a cascade of order/2 second-order sections implementing a
// Butterworth low-pass filter, built by ButterworthLowPass. Ported from
// original_source/sensor_core/native/dsp/butterworth_gaussianblur.cpp's
// butterworth_lowpass, generalized here to spec.md §6's stated demo
// parameters (48 kHz sample rate, 1 kHz cutoff, order 4) instead of a
// single order-2 section.
type Biquad struct {
	sections []*section
}

// ButterworthLowPass designs a Butterworth low-pass filter of the given
// order (must be even and positive) as a cascade of order/2 biquad
// sections, each built from the standard Butterworth pole angles
// theta_k = (2k-1)*pi/(2*order), k = 1..order/2, giving per-section
// quality factors Q_k = 1/(2*cos(theta_k)); each section is then a
// standard RBJ-cookbook low-pass biquad at (sampleRate, cutoffHz, Q_k).
func ButterworthLowPass(sampleRate, cutoffHz float64, order int) *Biquad {
	if order <= 0 || order%2 != 0 {
		panic("dsp: ButterworthLowPass requires a positive even order")
	}

	omega0 := 2 * math.Pi * cutoffHz / sampleRate
	cosOmega0 := math.Cos(omega0)
	sinOmega0 := math.Sin(omega0)

	m := order / 2
	sections := make([]*section, m)
	for k := 1; k <= m; k++ {
		theta := (2*float64(k) - 1) * math.Pi / (2 * float64(order))
		q := 1 / (2 * math.Cos(theta))
		alpha := sinOmega0 / (2 * q)

		a0 := 1 + alpha
		sections[k-1] = &section{
			b0: ((1 - cosOmega0) / 2) / a0,
			b1: (1 - cosOmega0) / a0,
			b2: ((1 - cosOmega0) / 2) / a0,
			a1: (-2 * cosOmega0) / a0,
			a2: (1 - alpha) / a0,
		}
	}
	return &Biquad{sections: sections}
}

// Process filters in place, running every sample through the full
// section cascade in order and carrying each section's state across
// calls so streaming callers can feed it one window at a time.
func (b *Biquad) Process(samples []float32) {
	for i, x0 := range samples {
		y := float64(x0)
		for _, s := range b.sections {
			y = s.process(y)
		}
		samples[i] = float32(y)
	}
}

// Reset clears the carried filter state of every section in the cascade.
func (b *Biquad) Reset() {
	for _, s := range b.sections {
		s.reset()
	}
}
