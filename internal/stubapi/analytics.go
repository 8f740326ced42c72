package stubapi

import (
	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"
	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/anomaly"
	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/converter"
)

// Peak tariff hours, [peakStart, peakEnd).
const (
	peakStart = 17
	peakEnd   = 21
)

const (
	tierPeak    = "peak"
	tierOffPeak = "offpeak"
)

var conv = &converter.EnergyConverter{}

func isPeakHour(h int) bool { return h >= peakStart && h < peakEnd }

// dayPeakShare is the share of a whole day billed at the peak tier.
const dayPeakShare = float64(peakEnd-peakStart) / 24

// peakShareUntil is the share of the hours in [0, hours) that fall in the peak window.
func peakShareUntil(hours float64) float64 {
	if hours <= 0 {
		return 0
	}
	overlap := min(hours, peakEnd) - peakStart
	if overlap <= 0 {
		return 0
	}
	return min(overlap, peakEnd-peakStart) / hours
}

// cost prices kwh with peakShare of it at the peak tier and the rest off-peak.
func cost(kwh, price, peakShare float64) float64 {
	switch {
	case peakShare <= 0:
		return conv.CalculateCost(kwh, price, tierOffPeak)
	case peakShare >= 1:
		return conv.CalculateCost(kwh, price, tierPeak)
	}
	return conv.CalculateCost(kwh*peakShare, price, tierPeak) +
		conv.CalculateCost(kwh*(1-peakShare), price, tierOffPeak)
}

func total(values []float64) float64 {
	points := make([]aggregator.Point, len(values))
	for i, v := range values {
		points[i] = aggregator.Point{Value: v}
	}
	return aggregator.Sum(points)
}

var spikeDetector = &anomaly.AnomalyDetector{Threshold: 2.0, WindowSize: 3}

// spikes counts the loads in draws that stand out from their neighbours.
func spikes(draws []float64) int {
	readings := make([]anomaly.Reading, len(draws))
	for i, w := range draws {
		readings[i] = anomaly.Reading{Consumption: w}
	}
	return len(spikeDetector.DetectSpikes(readings))
}
