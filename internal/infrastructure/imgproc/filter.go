package imgproc

import (
	"image"
	"math"
)

// bilateral сглаживает кадр, не размывая резкие перепады яркости.
// Окрестность круглая радиусом diameter/2, края отражаются без повторения крайнего пикселя.
func bilateral(src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(src.Rect)
	if w == 0 || h == 0 {
		return dst
	}

	radius := diameter / 2
	if radius < 1 {
		copy(dst.Pix, src.Pix)
		return dst
	}

	type tap struct {
		dx, dy int
		weight float64
	}
	var taps []tap
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > radius*radius {
				continue
			}
			taps = append(taps, tap{dx: dx, dy: dy, weight: math.Exp(float64(d2) * spaceCoeff)})
		}
	}

	var colorWeight [256]float64
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := int(src.Pix[y*src.Stride+x])

			var sum, norm float64
			for _, t := range taps {
				v := int(src.Pix[reflect101(y+t.dy, h)*src.Stride+reflect101(x+t.dx, w)])
				diff := v - c
				if diff < 0 {
					diff = -diff
				}
				wgt := t.weight * colorWeight[diff]
				sum += wgt * float64(v)
				norm += wgt
			}
			dst.Pix[y*dst.Stride+x] = clampUint8(math.Round(sum / norm))
		}
	}
	return dst
}

// erode заменяет каждый пиксель минимумом окрестности 3x3. Пиксели за границей кадра не учитываются.
func erode(src *image.Gray, iterations int) *image.Gray {
	cur := src
	w, h := src.Rect.Dx(), src.Rect.Dy()

	for i := 0; i < iterations; i++ {
		next := image.NewGray(cur.Rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				m := uint8(255)
				for yy := maxInt(y-1, 0); yy <= minInt(y+1, h-1); yy++ {
					for xx := maxInt(x-1, 0); xx <= minInt(x+1, w-1); xx++ {
						if v := cur.Pix[yy*cur.Stride+xx]; v < m {
							m = v
						}
					}
				}
				next.Pix[y*next.Stride+x] = m
			}
		}
		cur = next
	}

	if cur == src {
		dst := image.NewGray(src.Rect)
		copy(dst.Pix, src.Pix)
		return dst
	}
	return cur
}

// binarize делает белыми пиксели ярче порога, остальные чёрными.
func binarize(src *image.Gray, threshold int) *image.Gray {
	dst := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		if int(v) > threshold {
			dst.Pix[i] = 255
		}
	}
	return dst
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

func clampUint8(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
