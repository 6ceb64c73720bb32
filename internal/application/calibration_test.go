package app

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/infrastructure/imgproc"
)

// bandFrame — три вертикальные полосы яркостью 32, 72 и 200.
func bandFrame() *image.Gray {
	frame := uniformGray(40, 30, 200)
	for y := 0; y < 30; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(72)
			if x < 8 {
				v = 32
			}
			frame.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return frame
}

func TestCalibrator_FindBestThreshold(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)

	threshold, ok := c.FindBestThreshold(bandFrame())
	require.True(t, ok)
	require.Equal(t, 75, threshold)
}

func TestCalibrator_FindBestThresholdTiesGoToLowest(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)

	// Без тёмных пикселей доля радужки равна нулю при любом пороге.
	threshold, ok := c.FindBestThreshold(uniformGray(30, 30, 250))
	require.True(t, ok)
	require.Equal(t, 5, threshold)
}

func TestCalibrator_FindBestThresholdTooSmall(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)

	_, ok := c.FindBestThreshold(uniformGray(10, 30, 100))
	require.False(t, ok)
	_, ok = c.FindBestThreshold(uniformGray(30, 8, 100))
	require.False(t, ok)
}

func TestCalibrator_ThresholdCandidates(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)
	frame := uniformGray(40, 30, 0)
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			frame.SetGray(x, y, color.Gray{Y: uint8(x * 6)})
		}
	}

	threshold, ok := c.FindBestThreshold(frame)
	require.True(t, ok)
	require.GreaterOrEqual(t, threshold, 5)
	require.LessOrEqual(t, threshold, 95)
	require.Zero(t, threshold%5)
}

func TestIrisSize_MonotonicInThreshold(t *testing.T) {
	p := imgproc.New()
	frame := uniformGray(40, 30, 0)
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			frame.SetGray(x, y, color.Gray{Y: uint8(x * 6)})
		}
	}

	prev := -1.0
	for threshold := 5; threshold <= 95; threshold += 5 {
		size, ok := IrisSize(p.Binarize(frame, threshold))
		require.True(t, ok)
		require.GreaterOrEqual(t, size, prev)
		prev = size
	}
}

func TestIrisSize_TrimsBorder(t *testing.T) {
	binary := uniformGray(12, 12, 0)
	// Белая рамка шириной 5 в подсчёт не попадает.
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			if x < 5 || y < 5 || x >= 7 || y >= 7 {
				binary.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	size, ok := IrisSize(binary)
	require.True(t, ok)
	require.Equal(t, 1.0, size)

	binary.SetGray(6, 6, color.Gray{Y: 255})
	size, ok = IrisSize(binary)
	require.True(t, ok)
	require.Equal(t, 0.75, size)

	_, ok = IrisSize(uniformGray(10, 10, 0))
	require.False(t, ok)
}

func TestCalibrator_IsComplete(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 2)
	frame := bandFrame()

	require.False(t, c.IsComplete())
	c.Evaluate(frame, entity.SideLeft)
	c.Evaluate(frame, entity.SideLeft)
	c.Evaluate(frame, entity.SideRight)
	require.False(t, c.IsComplete())

	c.Evaluate(frame, entity.SideRight)
	require.True(t, c.IsComplete())
	require.Equal(t, []int{75, 75}, c.Samples(entity.SideRight))
}

func TestCalibrator_DefaultFrames(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)
	c.thresholds[entity.SideLeft] = make([]int, DefaultCalibrationFrames-1)
	c.thresholds[entity.SideRight] = make([]int, DefaultCalibrationFrames)
	require.False(t, c.IsComplete())

	c.thresholds[entity.SideLeft] = append(c.thresholds[entity.SideLeft], 0)
	require.True(t, c.IsComplete())
}

func TestCalibrator_ThresholdTruncatesMean(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)

	_, ok := c.Threshold(entity.SideLeft)
	require.False(t, ok)

	c.thresholds[entity.SideLeft] = []int{10, 15, 15}
	c.thresholds[entity.SideRight] = []int{25}

	left, ok := c.Threshold(entity.SideLeft)
	require.True(t, ok)
	require.Equal(t, 13, left)

	right, ok := c.Threshold(entity.SideRight)
	require.True(t, ok)
	require.Equal(t, 25, right)

	_, ok = c.Threshold(entity.Side(7))
	require.False(t, ok)
}

func TestCalibrator_EvaluateSkipsTinyFrames(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)

	c.Evaluate(uniformGray(8, 8, 100), entity.SideLeft)
	require.Empty(t, c.Samples(entity.SideLeft))

	c.Evaluate(bandFrame(), entity.Side(-1))
	require.Empty(t, c.Samples(entity.SideLeft))
	require.Empty(t, c.Samples(entity.SideRight))
}

// diskFrame — светлый кадр 50x50 с тёмным диском яркостью v в центре. После трёх
// эрозий диск радиусом 12 занимает около 48% внутренней области 40x40.
func diskFrame(v uint8) *image.Gray {
	frame := uniformGray(50, 50, 200)
	fillDisk(frame, 25, 25, 12, v)
	return frame
}

func TestCalibrator_FindBestThresholdDisk(t *testing.T) {
	c := NewCalibrator(imgproc.New(), 0)

	// Ниже яркости диска тёмных пикселей нет, начиная с неё доля не меняется
	// вплоть до 95. Ближе всего к 0.48 первый порог, не меньший яркости диска.
	for _, tc := range []struct {
		disk uint8
		want int
	}{
		{disk: 40, want: 40},
		{disk: 62, want: 65},
		{disk: 12, want: 15},
	} {
		threshold, ok := c.FindBestThreshold(diskFrame(tc.disk))
		require.True(t, ok)
		require.Equal(t, tc.want, threshold, "disk %d", tc.disk)
	}
}

func TestCalibrator_DiskCoverage(t *testing.T) {
	proc := imgproc.New()

	size, ok := IrisSize(proc.Binarize(diskFrame(40), 40))
	require.True(t, ok)
	require.InDelta(t, 0.48, size, 0.05)

	size, ok = IrisSize(proc.Binarize(diskFrame(40), 35))
	require.True(t, ok)
	require.Zero(t, size)
}
