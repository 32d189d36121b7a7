package charts

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/call-dashboard/internal/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	Overview = "overview.png"
	Vendors  = "vendors.png"
	Months   = "months.png"

	ContentType = "image/png"

	DefaultWidth  = 800
	DefaultHeight = 400

	overviewColor   = "#8884d8"
	conversionColor = "#3F2E56"
	labelColor      = "#dddddd"
	totalLineColor  = "#8884d8"

	monthBarHalfWidth = 0.3
)

var (
	ErrNoData       = errors.New("no data to chart")
	ErrUnknownChart = errors.New("unknown chart")
)

// Names lista os gráficos disponíveis
func Names() []string {
	return []string{Overview, Vendors, Months}
}

type Renderer struct {
	width  int
	height int
}

func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{width: width, height: height}
}

// Render escreve o PNG do gráfico pedido
func (r *Renderer) Render(name string, dashboard *domain.Dashboard, w io.Writer) error {
	if !dashboard.HasData() {
		return ErrNoData
	}

	switch name {
	case Overview:
		return r.Overview(dashboard.Summary, w)
	case Vendors:
		return r.Vendors(dashboard.Vendors, w)
	case Months:
		return r.Months(dashboard.Monthly, w)
	default:
		return errors.Wrapf(ErrUnknownChart, "chart %q", name)
	}
}

// Overview desenha vendas fechadas contra abertas
func (r *Renderer) Overview(summary domain.SalesSummary, w io.Writer) error {
	if summary.IsEmpty() {
		return ErrNoData
	}

	fill := fillStyle(overviewColor)
	maxValue, ticks := countTicks(float64(max(summary.ClosedSales, summary.OpenSales)))

	graph := chart.BarChart{
		Title:    "Sales Overview",
		Width:    r.width,
		Height:   r.height,
		BarWidth: 120,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue},
			Ticks: ticks,
		},
		Bars: []chart.Value{
			{Value: float64(summary.ClosedSales), Label: "Closed Sales", Style: fill},
			{Value: float64(summary.OpenSales), Label: "Open Sales", Style: fill},
		},
	}

	return errors.Wrap(graph.Render(chart.PNG, w), "rendering overview chart")
}

// Vendors desenha a taxa de conversão por vendedor, com o rótulo de totais em cada barra
func (r *Renderer) Vendors(vendors []*domain.VendorAggregate, w io.Writer) error {
	if len(vendors) == 0 {
		return ErrNoData
	}

	fill := fillStyle(conversionColor)
	fill.FontColor = hexColor(labelColor)

	bars := make([]chart.Value, 0, len(vendors))
	for _, vendor := range vendors {
		bars = append(bars, chart.Value{
			Value: vendor.ConversionRate,
			Label: vendor.Vendor + ": " + vendor.TotalLabel,
			Style: fill,
		})
	}

	graph := chart.BarChart{
		Title:    "Conversion Rate by Vendor (%)",
		Width:    r.width,
		Height:   r.height,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: []chart.Tick{
				{Value: 0, Label: "0"},
				{Value: 25, Label: "25"},
				{Value: 50, Label: "50"},
				{Value: 75, Label: "75"},
				{Value: 100, Label: "100"},
			},
		},
		Bars: bars,
	}

	return errors.Wrap(graph.Render(chart.PNG, w), "rendering vendors chart")
}

// Months desenha as vendas fechadas por mês empilhadas por vendedor, com a linha de total
func (r *Renderer) Months(monthly *domain.MonthlySales, w io.Writer) error {
	if monthly == nil || len(monthly.Months) == 0 {
		return ErrNoData
	}

	count := len(monthly.Months)
	xTicks := make([]chart.Tick, 0, count)
	totalX := make([]float64, 0, count)
	totalY := make([]float64, 0, count)
	highest := 0

	for i, month := range monthly.Months {
		xTicks = append(xTicks, chart.Tick{Value: float64(i), Label: month.Month})
		totalX = append(totalX, float64(i))
		totalY = append(totalY, float64(month.Total))
		highest = max(highest, month.Total)
	}

	// Cada camada acumula os vendedores até ela; desenhar da mais alta para a
	// mais baixa deixa à mostra apenas a fatia de cada vendedor.
	series := make([]chart.Series, 0, len(monthly.Vendors)+1)
	for layer := len(monthly.Vendors) - 1; layer >= 0; layer-- {
		vendor := monthly.Vendors[layer]
		xs, ys := stackedStep(monthly.Months, monthly.Vendors[:layer+1])
		style := fillStyle(monthly.Colors[vendor])

		series = append(series, chart.ContinuousSeries{
			Name:    vendor,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	series = append(series, chart.ContinuousSeries{
		Name:    "Total Sales",
		XValues: totalX,
		YValues: totalY,
		Style: chart.Style{
			StrokeColor: hexColor(totalLineColor),
			StrokeWidth: 3,
			DotColor:    hexColor(totalLineColor),
			DotWidth:    4,
		},
	})

	maxValue, yTicks := countTicks(float64(highest))

	graph := chart.Chart{
		Title:  "Monthly Sales",
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(count) - 0.5},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue},
			Ticks: yTicks,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return errors.Wrap(graph.Render(chart.PNG, w), "rendering months chart")
}

// stackedStep gera o contorno de barras (degraus) com a soma dos vendedores informados em cada mês
func stackedStep(months []*domain.MonthAggregate, vendors []string) ([]float64, []float64) {
	xs := make([]float64, 0, len(months)*4)
	ys := make([]float64, 0, len(months)*4)

	for i, month := range months {
		height := 0
		for _, vendor := range vendors {
			height += month.Vendors[vendor]
		}

		left := float64(i) - monthBarHalfWidth
		right := float64(i) + monthBarHalfWidth
		xs = append(xs, left, left, right, right)
		ys = append(ys, 0, float64(height), float64(height), 0)
	}

	return xs, ys
}

// countTicks devolve o topo do eixo e marcações inteiras para contagens
func countTicks(highest float64) (float64, []chart.Tick) {
	if highest < 1 {
		highest = 1
	}

	step := math.Max(1, math.Ceil(highest/5))
	top := step * math.Ceil(highest/step)

	ticks := make([]chart.Tick, 0, int(top/step)+1)
	for value := 0.0; value <= top; value += step {
		ticks = append(ticks, chart.Tick{Value: value, Label: strconv.Itoa(int(value))})
	}

	return top, ticks
}

func fillStyle(hex string) chart.Style {
	color := hexColor(hex)
	return chart.Style{
		FillColor:   color,
		StrokeColor: color,
		StrokeWidth: 1,
	}
}

func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
