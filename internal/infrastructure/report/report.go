// Package report строит HTML-отчёт по сессиям отслеживания взгляда.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/domain/port"
)

// ErrNoSessions — отчёт без сессий не строится.
var ErrNoSessions = errors.New("no sessions to report")

// EChartsRenderer рисует отчёт на go-echarts: кольцо состояний текущей сессии
// и столбцы доли внимания по всем сессиям.
type EChartsRenderer struct {
	AssetsHost string // при пустом значении ассеты берутся с CDN по умолчанию
	TimeLayout string
}

func NewEChartsRenderer() *EChartsRenderer {
	return &EChartsRenderer{TimeLayout: "02.01 15:04"}
}

// Render записывает страницу отчёта. Последняя сессия считается текущей.
func (r *EChartsRenderer) Render(w io.Writer, sessions []*entity.Session) error {
	if len(sessions) == 0 {
		return ErrNoSessions
	}
	current := sessions[len(sessions)-1]

	page := components.NewPage()
	page.PageTitle = "Gaze tracking report"
	if r.AssetsHost != "" {
		page.AssetsHost = r.AssetsHost
	}
	page.AddCharts(r.statesChart(current), r.attentionChart(sessions))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func (r *EChartsRenderer) statesChart(s *entity.Session) *charts.Pie {
	data := make([]opts.PieData, 0, len(entity.GazeStates))
	for _, state := range entity.GazeStates {
		if n := s.Counts[state]; n > 0 {
			data = append(data, opts.PieData{Name: string(state), Value: n})
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(r.init("600px")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Gaze states",
			Subtitle: fmt.Sprintf("attention=%.0f%% distraction=%s frames=%d", s.Attention()*100, s.Distraction(), s.Frames),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	pie.AddSeries("states", data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

func (r *EChartsRenderer) attentionChart(sessions []*entity.Session) *charts.Bar {
	x := make([]string, 0, len(sessions))
	y := make([]opts.BarData, 0, len(sessions))
	percents := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		p := attentionPercent(s)
		x = append(x, s.StartedAt.Format(r.TimeLayout))
		y = append(y, opts.BarData{Value: p})
		percents = append(percents, p)
	}
	mean, std := attentionSummary(percents)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(r.init("480px")),
		charts.WithTitleOpts(opts.Title{Title: "Attention per session", Subtitle: fmt.Sprintf("sessions=%d mean=%.1f%% std=%.1f%%", len(sessions), mean, std)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Min: 0, Max: 100}),
	)
	bar.SetXAxis(x).
		AddSeries("attention", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func (r *EChartsRenderer) init(height string) opts.Initialization {
	return opts.Initialization{Width: "900px", Height: height, AssetsHost: r.AssetsHost}
}

func attentionPercent(s *entity.Session) float64 {
	return math.Round(s.Attention()*1000) / 10
}

// attentionSummary возвращает среднее и стандартное отклонение доли внимания по сессиям.
// Для одной сессии отклонение нулевое.
func attentionSummary(percents []float64) (float64, float64) {
	switch len(percents) {
	case 0:
		return 0, 0
	case 1:
		return percents[0], 0
	}
	return stat.MeanStdDev(percents, nil)
}

// Проверка реализации интерфейса
var _ port.ReportRenderer = (*EChartsRenderer)(nil)
