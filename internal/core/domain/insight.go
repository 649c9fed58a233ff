package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Trend is the direction of a metric.
type Trend string

// Known trends.
const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Timeframe bounds the period a metric or citation refers to.
type Timeframe struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Metric is a figure extracted from the report.
// Value and PreviousValue hold either a number or a string.
type Metric struct {
	Value            any        `json:"value"`
	Unit             string     `json:"unit,omitempty"`
	Context          string     `json:"context,omitempty"`
	Trend            Trend      `json:"trend,omitempty"`
	PreviousValue    any        `json:"previousValue,omitempty"`
	ChangePercentage *float64   `json:"changePercentage,omitempty"`
	Timeframe        *Timeframe `json:"timeframe,omitempty"`
}

// Citation points at the passage an answer relied on.
type Citation struct {
	Page      int        `json:"page"`
	Section   string     `json:"section,omitempty"`
	Text      string     `json:"text"`
	Relevance float64    `json:"relevance"`
	Context   string     `json:"context,omitempty"`
	Timeframe *Timeframe `json:"timeframe,omitempty"`
}

// ChartType is the kind of chart the service suggests.
type ChartType string

// Known chart types.
const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartArea ChartType = "area"
)

// ChartDataset is one series of a chart.
type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
}

// ChartData holds labels and series.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// Chart is chart data attached to an answer. Rendering is up to the presenter.
type Chart struct {
	Type  ChartType `json:"type"`
	Title string    `json:"title"`
	Data  ChartData `json:"data"`
}

// Insight is the normalised answer to one question.
// Lists are never nil after normalisation.
type Insight struct {
	Answer     string
	Metrics    []Metric
	Citations  []Citation
	Context    string
	Confidence *float64
	Charts     []Chart
}

// FormatValue renders the metric value followed by its unit.
func (m Metric) FormatValue() string {
	value := formatScalar(m.Value)
	if m.Unit == "" || value == "" {
		return value
	}
	if m.Unit == "%" {
		return value + m.Unit
	}
	return value + " " + m.Unit
}

// Summary describes the chart in one line; charts are not drawn.
func (c Chart) Summary() string {
	title := c.Title
	if title == "" {
		title = "untitled"
	}
	series := make([]string, 0, len(c.Data.Datasets))
	for _, ds := range c.Data.Datasets {
		series = append(series, ds.Label)
	}
	summary := fmt.Sprintf("%s chart %q, %d labels", c.Type, title, len(c.Data.Labels))
	if len(series) > 0 {
		summary += ", series: " + strings.Join(series, ", ")
	}
	return summary
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
