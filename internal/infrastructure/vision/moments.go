// Package vision содержит адаптеры OpenCV (тег сборки gocv): обработку кадра глаза и веб-камеру.
package vision

import "image"

// polygonCentroid считает центр масс области, ограниченной замкнутым контуром,
// по формуле Грина. Вырожденный контур с нулевой площадью центра не имеет.
func polygonCentroid(points []image.Point) (image.Point, bool) {
	if len(points) < 3 {
		return image.Point{}, false
	}

	var m00, m10, m01 float64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		x0, y0 := float64(p.X), float64(p.Y)
		x1, y1 := float64(q.X), float64(q.Y)
		cross := x0*y1 - x1*y0
		m00 += cross
		m10 += (x0 + x1) * cross
		m01 += (y0 + y1) * cross
	}
	m00 /= 2
	if m00 == 0 {
		return image.Point{}, false
	}
	m10 /= 6
	m01 /= 6
	return image.Pt(int(m10/m00), int(m01/m00)), true
}

// denseGray приводит кадр к началу координат и плотной упаковке строк.
func denseGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	if b.Min == (image.Point{}) && src.Stride == b.Dx() {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return dst
}
