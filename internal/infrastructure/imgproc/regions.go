package imgproc

import "image"

// region описывает один контур бинарного кадра через ограниченную им область.
//
// Белые компоненты связны по 8 соседям и дают внешние контуры, чёрные компоненты,
// не касающиеся края кадра, связны по 4 соседям и дают контуры дыр. Площадь контура
// равна числу пикселей внутри него вместе с вложенными компонентами. Контур белой
// компоненты толщиной в один пиксель вырожден в линию, его площадь и m00 равны нулю.
type region struct {
	area          float64
	m00, m10, m01 float64
}

var (
	neighbors4 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	neighbors8 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// findRegions перечисляет контуры кадра в порядке обхода строк.
func findRegions(bin *image.Gray) []region {
	w, h := bin.Rect.Dx(), bin.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	labels := make([]int32, w*h)
	var (
		regions []region
		label   int32
		queue   []int
	)

	for start := range labels {
		if labels[start] != 0 {
			continue
		}
		label++
		white := bin.Pix[start] != 0
		conn := neighbors4
		if white {
			conn = neighbors8
		}

		// Заливка компоненты.
		minX, minY, maxX, maxY := w, h, -1, -1
		touchesBorder := false
		queue = append(queue[:0], start)
		labels[start] = label
		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := i%w, i/w
			minX, maxX = minInt(minX, x), maxInt(maxX, x)
			minY, maxY = minInt(minY, y), maxInt(maxY, y)
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				touchesBorder = true
			}
			for _, d := range conn {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if labels[j] == 0 && (bin.Pix[j] != 0) == white {
					labels[j] = label
					queue = append(queue, j)
				}
			}
		}

		if !white && touchesBorder {
			// Чёрный фон у края кадра контура не образует.
			continue
		}

		r := enclosed(labels, label, w, h, white)
		if white && (minX == maxX || minY == maxY) {
			r.area, r.m00 = 0, 0
		}
		regions = append(regions, r)
	}
	return regions
}

// enclosed считает площадь и моменты области, ограниченной компонентой label:
// всё, что недостижимо от края кадра, не пересекая компоненту.
func enclosed(labels []int32, label int32, w, h int, white bool) region {
	conn := neighbors8
	if white {
		conn = neighbors4
	}

	reached := make([]bool, w*h)
	var queue []int
	push := func(i int) {
		if !reached[i] && labels[i] != label {
			reached[i] = true
			queue = append(queue, i)
		}
	}
	for x := 0; x < w; x++ {
		push(x)
		push((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		push(y * w)
		push(y*w + w - 1)
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%w, i/w
		for _, d := range conn {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			push(ny*w + nx)
		}
	}

	var r region
	for i, out := range reached {
		if out {
			continue
		}
		r.m00++
		r.m10 += float64(i % w)
		r.m01 += float64(i / w)
	}
	r.area = r.m00
	return r
}
