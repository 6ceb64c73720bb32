package entity

import "image"

// GazeState направление взгляда на кадре
type GazeState string

const (
	GazeUnknown  GazeState = "unknown"  // зрачки не найдены
	GazeBlinking GazeState = "blinking" // глаза закрыты
	GazeRight    GazeState = "right"    // взгляд вправо
	GazeLeft     GazeState = "left"     // взгляд влево
	GazeCenter   GazeState = "center"   // взгляд в центр
)

// GazeStates перечисляет состояния в порядке вывода отчётов.
var GazeStates = []GazeState{GazeCenter, GazeLeft, GazeRight, GazeBlinking, GazeUnknown}

// Label возвращает подпись состояния для вывода на кадр.
func (s GazeState) Label() string {
	switch s {
	case GazeBlinking:
		return "Blinking"
	case GazeRight:
		return "Looking right"
	case GazeLeft:
		return "Looking left"
	case GazeCenter:
		return "Looking center"
	default:
		return ""
	}
}

// Пороги классификации.
const (
	BlinkThreshold = 3.8  // среднее отношение ширины глаза к высоте, выше которого глаза закрыты
	RightThreshold = 0.35 // горизонтальное отношение, не выше которого взгляд вправо
	LeftThreshold  = 0.65 // горизонтальное отношение, не ниже которого взгляд влево
)

// Gaze — результат анализа одного кадра.
type Gaze struct {
	Left      Eye
	Right     Eye
	EyesFound bool // лицо и разметка глаз найдены
}

// PupilsLocated сообщает, найдены ли оба зрачка.
func (g Gaze) PupilsLocated() bool {
	return g.EyesFound && g.Left.Pupil.Located && g.Right.Pupil.Located
}

// PupilLeftCoords возвращает координаты левого зрачка на исходном кадре.
func (g Gaze) PupilLeftCoords() (image.Point, bool) {
	if !g.PupilsLocated() {
		return image.Point{}, false
	}
	return g.Left.PupilCoords()
}

// PupilRightCoords возвращает координаты правого зрачка на исходном кадре.
func (g Gaze) PupilRightCoords() (image.Point, bool) {
	if !g.PupilsLocated() {
		return image.Point{}, false
	}
	return g.Right.PupilCoords()
}

// HorizontalRatio возвращает число от 0.0 (взгляд вправо до упора)
// через 0.5 (центр) до 1.0 (влево до упора).
func (g Gaze) HorizontalRatio() (float64, bool) {
	if !g.PupilsLocated() {
		return 0, false
	}
	return average(g.Left.horizontal, g.Right.horizontal)
}

// VerticalRatio возвращает число от 0.0 (взгляд вверх) до 1.0 (вниз).
func (g Gaze) VerticalRatio() (float64, bool) {
	if !g.PupilsLocated() {
		return 0, false
	}
	return average(g.Left.vertical, g.Right.vertical)
}

// BlinkRatio возвращает среднее отношение ширины глаз к высоте.
func (g Gaze) BlinkRatio() Ratio {
	if !g.PupilsLocated() || !g.Left.Blink.Valid || !g.Right.Blink.Valid {
		return Ratio{}
	}
	return SomeRatio((g.Left.Blink.Value + g.Right.Blink.Value) / 2)
}

// IsBlinking сообщает, закрыты ли глаза.
func (g Gaze) IsBlinking() bool {
	return isBlinking(g.BlinkRatio())
}

// IsRight сообщает, смотрит ли пользователь вправо.
func (g Gaze) IsRight() bool {
	h, ok := g.HorizontalRatio()
	return ok && h <= RightThreshold
}

// IsLeft сообщает, смотрит ли пользователь влево.
func (g Gaze) IsLeft() bool {
	h, ok := g.HorizontalRatio()
	return ok && h >= LeftThreshold
}

// IsCenter сообщает, смотрит ли пользователь в центр.
func (g Gaze) IsCenter() bool {
	h, ok := g.HorizontalRatio()
	return ok && classifyHorizontal(h) == GazeCenter
}

// State возвращает итоговое состояние кадра. Моргание имеет приоритет над направлением.
func (g Gaze) State() GazeState {
	if !g.PupilsLocated() {
		return GazeUnknown
	}
	h, ok := g.HorizontalRatio()
	if !ok {
		return GazeUnknown
	}
	return Classify(h, g.BlinkRatio())
}

// Classify относит горизонтальное отношение и отношение моргания к состоянию.
func Classify(horizontal float64, blink Ratio) GazeState {
	if isBlinking(blink) {
		return GazeBlinking
	}
	return classifyHorizontal(horizontal)
}

func classifyHorizontal(h float64) GazeState {
	switch {
	case h <= RightThreshold:
		return GazeRight
	case h >= LeftThreshold:
		return GazeLeft
	default:
		return GazeCenter
	}
}

func isBlinking(blink Ratio) bool {
	return blink.Valid && blink.Value > BlinkThreshold
}

func average(left, right func() (float64, bool)) (float64, bool) {
	l, ok := left()
	if !ok {
		return 0, false
	}
	r, ok := right()
	if !ok {
		return 0, false
	}
	return (l + r) / 2, true
}
