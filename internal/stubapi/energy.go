package stubapi

import (
	"fmt"
	"math"
	"time"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	maxPoints  = 366
)

var periodHours = map[domain.BreakdownPeriod]float64{
	domain.PeriodDay:   24,
	domain.PeriodWeek:  24 * 7,
	domain.PeriodMonth: 24 * 30,
}

func duty(status domain.ApplianceStatus) float64 {
	switch status {
	case domain.StatusOn:
		return 1
	case domain.StatusStandby:
		return 0.05
	}
	return 0
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// loadKW is the average draw of all appliances given their current status.
func (s *Store) loadKW() float64 {
	var w float64
	for _, a := range s.appliances {
		w += a.PowerRating * duty(a.Status)
	}
	return w / 1000
}

func (s *Store) Realtime() (domain.RealtimeSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("energy.realtime"); err != nil {
		return domain.RealtimeSnapshot{}, err
	}
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight).Hours()
	kwh := round2(s.loadKW() * elapsed)
	return domain.RealtimeSnapshot{
		TotalConsumption: kwh,
		CostEstimate:     round2(cost(kwh, s.settings.EnergyPricePerKWh, peakShareUntil(elapsed))),
		Timestamp:        now,
	}, nil
}

func (s *Store) Breakdown(period domain.BreakdownPeriod) ([]domain.BreakdownEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("energy.breakdown"); err != nil {
		return nil, err
	}
	hours, ok := periodHours[period]
	if !ok {
		return nil, fmt.Errorf("unknown period %q", period)
	}

	out := make([]domain.BreakdownEntry, 0, len(s.appliances))
	kwhs := make([]float64, 0, len(s.appliances))
	for _, a := range s.appliances {
		kwh := a.PowerRating / 1000 * duty(a.Status) * hours
		kwhs = append(kwhs, kwh)
		out = append(out, domain.BreakdownEntry{Name: a.Name, Type: a.Type, TotalConsumption: round2(kwh)})
	}
	if sum := total(kwhs); sum > 0 {
		for i := range out {
			out[i].Percentage = domain.Percent(round2(kwhs[i] / sum * 100))
		}
	}
	return out, nil
}

func variation(i int) float64 { return 0.8 + 0.4*math.Abs(math.Sin(float64(i)+1)) }

func parseDate(v string) (time.Time, bool, error) {
	if v == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q", v)
	}
	return t, true, nil
}

// Historical synthesizes a deterministic series for the interval. Without a range it covers
// the last 24 hours, 7 days, 4 weeks or 6 months.
func (s *Store) Historical(q domain.HistoryQuery) ([]domain.HistoryPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("energy.historical"); err != nil {
		return nil, err
	}
	start, hasStart, err := parseDate(q.StartDate)
	if err != nil {
		return nil, err
	}
	end, hasEnd, err := parseDate(q.EndDate)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !hasEnd {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if hasStart && start.After(end) {
		return nil, fmt.Errorf("startDate after endDate")
	}

	load := s.loadKW()
	price := s.settings.EnergyPricePerKWh
	point := func(i int, p domain.Period, hours, peakShare float64) domain.HistoryPoint {
		kwh := round2(load * hours * variation(i))
		return domain.HistoryPoint{Period: p, TotalConsumption: kwh, AverageCost: round2(cost(kwh, price, peakShare))}
	}

	var out []domain.HistoryPoint
	switch q.Interval {
	case domain.IntervalHourly:
		for h := 0; h < 24; h++ {
			share := 0.0
			if isPeakHour(h) {
				share = 1
			}
			out = append(out, point(h, domain.Period{Year: end.Year(), Month: int(end.Month()), Day: end.Day(), Hour: h}, 1, share))
		}
	case domain.IntervalDaily, "":
		if !hasStart {
			start = end.AddDate(0, 0, -6)
		}
		for d, i := start, 0; !d.After(end) && i < maxPoints; d, i = d.AddDate(0, 0, 1), i+1 {
			out = append(out, point(d.YearDay(), domain.Period{Year: d.Year(), Month: int(d.Month()), Day: d.Day()}, 24, dayPeakShare))
		}
	case domain.IntervalWeekly:
		if !hasStart {
			start = end.AddDate(0, 0, -7*3)
		}
		for d, i := start, 0; !d.After(end) && i < maxPoints; d, i = d.AddDate(0, 0, 7), i+1 {
			year, week := d.ISOWeek()
			out = append(out, point(week, domain.Period{Year: year, Week: week}, 24*7, dayPeakShare))
		}
	case domain.IntervalMonthly:
		if !hasStart {
			start = end.AddDate(0, -5, 0)
		}
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for d, i := first, 0; !d.After(end) && i < maxPoints; d, i = d.AddDate(0, 1, 0), i+1 {
			out = append(out, point(int(d.Month()), domain.Period{Year: d.Year(), Month: int(d.Month())}, 24*30, dayPeakShare))
		}
	default:
		return nil, fmt.Errorf("unknown interval %q", q.Interval)
	}
	return out, nil
}
