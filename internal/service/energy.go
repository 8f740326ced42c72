package service

import (
	"context"
	"net/url"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

type EnergyService struct {
	api *api.Client
}

func (s *EnergyService) Realtime(ctx context.Context) (domain.RealtimeSnapshot, error) {
	return decode[domain.RealtimeSnapshot](s.api.Get(ctx, "/energy/realtime", nil))
}

func (s *EnergyService) Breakdown(ctx context.Context, period domain.BreakdownPeriod) ([]domain.BreakdownEntry, error) {
	if period == "" {
		period = domain.PeriodDay
	}
	params := url.Values{}
	params.Set("period", string(period))
	return decode[[]domain.BreakdownEntry](s.api.Get(ctx, "/energy/breakdown", params))
}

func (s *EnergyService) Historical(ctx context.Context, q domain.HistoryQuery) ([]domain.HistoryPoint, error) {
	if q.Interval == "" {
		q.Interval = domain.IntervalDaily
	}
	params := url.Values{}
	params.Set("interval", string(q.Interval))
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}
	return decode[[]domain.HistoryPoint](s.api.Get(ctx, "/energy/historical", params))
}
