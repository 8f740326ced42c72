package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/view"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteHistoryCSV writes one row per history point, labelled the way the chart labels them.
func WriteHistoryCSV(w io.Writer, interval domain.HistoryInterval, points []domain.HistoryPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "total_consumption_kwh", "average_cost"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			view.HistoryLabel(interval, p.Period),
			formatFloat(p.TotalConsumption),
			formatFloat(p.AverageCost),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteBreakdownCSV(w io.Writer, entries []domain.BreakdownEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "type", "total_consumption_kwh", "percentage"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{e.Name, string(e.Type), formatFloat(e.TotalConsumption), formatFloat(float64(e.Percentage))}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
