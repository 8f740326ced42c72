package view

import (
	"fmt"
	"strconv"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

// Palette is the colour cycle of the breakdown donut, as r,g,b triples.
var Palette = [][3]int{
	{255, 99, 132},
	{54, 162, 235},
	{255, 206, 86},
	{75, 192, 192},
	{153, 102, 255},
	{255, 159, 64},
	{199, 199, 199},
	{83, 102, 255},
}

type LineDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	Tension         float64   `json:"tension"`
}

type LineChart struct {
	Labels   []string      `json:"labels"`
	Datasets []LineDataset `json:"datasets"`
}

type DonutDataset struct {
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     []string  `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

type DonutChart struct {
	Labels   []string       `json:"labels"`
	Datasets []DonutDataset `json:"datasets"`
}

func rgba(c [3]int, alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c[0], c[1], c[2], strconv.FormatFloat(alpha, 'f', -1, 64))
}

func rgb(c [3]int) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c[0], c[1], c[2])
}

var (
	consumptionColor = [3]int{75, 192, 192}
	costColor        = [3]int{255, 99, 132}
)

// HistoryLabel names a history bucket on the chart axis.
func HistoryLabel(interval domain.HistoryInterval, p domain.Period) string {
	switch interval {
	case domain.IntervalHourly:
		return fmt.Sprintf("%d:00", p.Hour)
	case domain.IntervalDaily:
		return fmt.Sprintf("%d/%d", p.Day, p.Month)
	case domain.IntervalWeekly:
		return fmt.Sprintf("Week %d", p.Week)
	default:
		return fmt.Sprintf("%d/%d", p.Month, p.Year)
	}
}

// HistoryChart builds the consumption line and, when withCost is set, the cost line.
func HistoryChart(interval domain.HistoryInterval, points []domain.HistoryPoint, withCost bool) LineChart {
	labels := make([]string, 0, len(points))
	usage := make([]float64, 0, len(points))
	cost := make([]float64, 0, len(points))
	for _, p := range points {
		labels = append(labels, HistoryLabel(interval, p.Period))
		usage = append(usage, p.TotalConsumption)
		cost = append(cost, p.AverageCost)
	}
	chart := LineChart{
		Labels: labels,
		Datasets: []LineDataset{{
			Label:           "Energy Usage (kWh)",
			Data:            usage,
			BorderColor:     rgb(consumptionColor),
			BackgroundColor: rgba(consumptionColor, 0.5),
			Tension:         0.3,
		}},
	}
	if withCost {
		chart.Datasets = append(chart.Datasets, LineDataset{
			Label:           "Cost Estimate ($)",
			Data:            cost,
			BorderColor:     rgb(costColor),
			BackgroundColor: rgba(costColor, 0.5),
			Tension:         0.3,
		})
	}
	return chart
}

// BreakdownChart builds the donut of appliance shares. Colours repeat after the palette ends.
func BreakdownChart(entries []domain.BreakdownEntry) DonutChart {
	ds := DonutDataset{
		Data:            make([]float64, 0, len(entries)),
		BackgroundColor: make([]string, 0, len(entries)),
		BorderColor:     make([]string, 0, len(entries)),
		BorderWidth:     1,
	}
	labels := make([]string, 0, len(entries))
	for i, e := range entries {
		c := Palette[i%len(Palette)]
		labels = append(labels, e.Name)
		ds.Data = append(ds.Data, float64(e.Percentage))
		ds.BackgroundColor = append(ds.BackgroundColor, rgba(c, 0.7))
		ds.BorderColor = append(ds.BorderColor, rgba(c, 1))
	}
	return DonutChart{Labels: labels, Datasets: []DonutDataset{ds}}
}
