package dsp

import (
	"image"
	"image/color"
	"math"
)

// GaussianBlur applies a separable Gaussian blur of the given kernelSize
// (an even kernelSize is rounded up to the next odd size) and sigma to
// img, returning a new image.Image of the same bounds. No third-party image-processing library appears anywhere
// in the retrieval pack (see DESIGN.md), so this stays on the standard
// library's image package, matching the demo-only role spec.md §6 gives
// it: a stand-in for the frame-level image processing the original
// sensor_core ships alongside the ring, not a component the ring depends
// on. Ported from
// original_source/sensor_core/native/dsp/butterworth_gaussianblur.cpp's
// gaussian_blur.
func GaussianBlur(img image.Image, kernelSize int, sigma float64) image.Image {
	if kernelSize%2 == 0 {
		kernelSize++
	}
	kernel := gaussianKernel1D(kernelSize, sigma)

	horiz := blurPass(img, kernel, true)
	return blurPass(horiz, kernel, false)
}

func gaussianKernel1D(size int, sigma float64) []float64 {
	half := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func blurPass(img image.Image, kernel []float64, horizontal bool) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	half := len(kernel) / 2

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var r, g, b, a float64
			for k := -half; k <= half; k++ {
				sx, sy := x, y
				if horizontal {
					sx = clamp(x+k, bounds.Min.X, bounds.Max.X-1)
				} else {
					sy = clamp(y+k, bounds.Min.Y, bounds.Max.Y-1)
				}
				pr, pg, pb, pa := img.At(sx, sy).RGBA()
				w := kernel[k+half]
				r += float64(pr) * w
				g += float64(pg) * w
				b += float64(pb) * w
				a += float64(pa) * w
			}
			out.Set(x, y, color.RGBA64{
				R: uint16(clampFloat(r, 0, 0xffff)),
				G: uint16(clampFloat(g, 0, 0xffff)),
				B: uint16(clampFloat(b, 0, 0xffff)),
				A: uint16(clampFloat(a, 0, 0xffff)),
			})
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
