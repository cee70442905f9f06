package usecase

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	chart "github.com/wcharczuk/go-chart/v2"
)

// ChartOptions sizes rendered charts.
type ChartOptions struct {
	MaxBars int
	Width   int
	Height  int
}

const (
	defaultMaxBars     = 50
	defaultChartWidth  = 800
	defaultChartHeight = 400
	chartBarWidth      = 20
	chartBarSpacing    = 8
	chartPadding       = 120
)

func (o ChartOptions) withDefaults() ChartOptions {
	if o.MaxBars < 1 {
		o.MaxBars = defaultMaxBars
	}
	if o.Width < 1 {
		o.Width = defaultChartWidth
	}
	if o.Height < 1 {
		o.Height = defaultChartHeight
	}
	return o
}

// pickChartColumn returns column when it is numeric, or the first numeric column when column is empty.
func pickChartColumn(df dataframe.DataFrame, column string) (string, error) {
	numeric := numericColumns(df)

	if column == "" {
		if len(numeric) == 0 {
			return "", ErrNoNumericColumn
		}
		return numeric[0], nil
	}

	if !slices.Contains(df.Names(), column) {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if !slices.Contains(numeric, column) {
		return "", fmt.Errorf("%w: %q is not numeric", ErrNoNumericColumn, column)
	}

	return column, nil
}

// RenderBarChart draws one bar per row of a numeric column as a PNG.
// Bars are labelled by row index; missing values are drawn as zero.
func RenderBarChart(df dataframe.DataFrame, column string, opts ChartOptions) ([]byte, error) {
	opts = opts.withDefaults()

	s := df.Col(column)
	if s.Err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	n := min(s.Len(), opts.MaxBars)
	if n == 0 {
		return nil, fmt.Errorf("%w: %q has no rows", ErrNoNumericColumn, column)
	}

	lo, hi := 0.0, 0.0
	bars := make([]chart.Value, n)
	for i := 0; i < n; i++ {
		v := s.Elem(i).Float()
		if s.Elem(i).IsNA() || math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		bars[i] = chart.Value{Label: strconv.Itoa(i), Value: v}
	}
	if lo == hi {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:        column,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:        max(opts.Width, n*(chartBarWidth+chartBarSpacing)+chartPadding),
		Height:       opts.Height,
		BarWidth:     chartBarWidth,
		BarSpacing:   chartBarSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	buf := &bytes.Buffer{}
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	return buf.Bytes(), nil
}
