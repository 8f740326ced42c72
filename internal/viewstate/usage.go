package viewstate

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

const dateLayout = "2006-01-02"

// Usage is the energy usage screen. The history series depends on the interval and the date
// range, the breakdown on the period.
type Usage struct {
	*screen

	energy EnergySource

	query  domain.HistoryQuery
	period domain.BreakdownPeriod

	history   []domain.HistoryPoint
	shown     domain.HistoryQuery
	breakdown []domain.BreakdownEntry
}

// UsageState carries the selected parameters and, separately, the query the displayed
// history belongs to. The two differ while a refetch is in flight.
type UsageState struct {
	Phase        Phase                   `json:"phase"`
	Notices      NoticeState             `json:"notices"`
	Interval     domain.HistoryInterval  `json:"interval"`
	StartDate    string                  `json:"startDate,omitempty"`
	EndDate      string                  `json:"endDate,omitempty"`
	Period       domain.BreakdownPeriod  `json:"period"`
	History      []domain.HistoryPoint   `json:"history"`
	HistoryQuery domain.HistoryQuery     `json:"historyQuery"`
	Breakdown    []domain.BreakdownEntry `json:"breakdown"`
}

// Query is the history query the displayed series was requested with.
func (s UsageState) Query() domain.HistoryQuery { return s.HistoryQuery }

func NewUsage(energy EnergySource, opts Options) *Usage {
	u := &Usage{
		screen: newScreen("usage", MsgUsageLoadFailed, opts),
		energy: energy,
		query:  domain.HistoryQuery{Interval: domain.IntervalDaily},
		period: domain.PeriodDay,
	}
	u.register(source{
		key: keyHistory,
		prepare: func() fetchFunc {
			q := u.query
			return func(ctx context.Context) (func(), error) {
				points, err := u.energy.Historical(ctx, q)
				if err != nil {
					return nil, err
				}
				return func() { u.history, u.shown = nonNil(points), q }, nil
			}
		},
		reset: func() { u.history, u.shown = nil, domain.HistoryQuery{} },
	})
	u.register(source{
		key: keyBreakdown,
		prepare: func() fetchFunc {
			period := u.period
			return func(ctx context.Context) (func(), error) {
				entries, err := u.energy.Breakdown(ctx, period)
				if err != nil {
					return nil, err
				}
				return func() { u.breakdown = nonNil(entries) }, nil
			}
		},
		reset: func() { u.breakdown = nil },
	})
	return u
}

func (u *Usage) Activate(ctx context.Context) { u.activate(ctx, keyHistory, keyBreakdown) }

func (u *Usage) SetHistoryInterval(interval domain.HistoryInterval) error {
	if _, err := domain.ParseHistoryInterval(string(interval)); err != nil {
		return err
	}
	u.setQuery(func(q *domain.HistoryQuery) { q.Interval = interval })
	return nil
}

// SetDateRange bounds the history series. Either date may be empty; both must be
// YYYY-MM-DD and start may not be after end.
func (u *Usage) SetDateRange(start, end string) error {
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = time.Parse(dateLayout, start); err != nil {
			return fmt.Errorf("%w: start date %q", domain.ErrInvalid, start)
		}
	}
	if end != "" {
		if to, err = time.Parse(dateLayout, end); err != nil {
			return fmt.Errorf("%w: end date %q", domain.ErrInvalid, end)
		}
	}
	if start != "" && end != "" && from.After(to) {
		return fmt.Errorf("%w: start date %s is after end date %s", domain.ErrInvalid, start, end)
	}
	u.setQuery(func(q *domain.HistoryQuery) { q.StartDate, q.EndDate = start, end })
	return nil
}

func (u *Usage) setQuery(fn func(q *domain.HistoryQuery)) {
	u.mu.Lock()
	next := u.query
	fn(&next)
	if next == u.query {
		u.mu.Unlock()
		return
	}
	u.query = next
	u.mu.Unlock()
	u.load(keyHistory)
}

func (u *Usage) SetBreakdownPeriod(period domain.BreakdownPeriod) error {
	if _, err := domain.ParseBreakdownPeriod(string(period)); err != nil {
		return err
	}
	u.mu.Lock()
	if u.period == period {
		u.mu.Unlock()
		return nil
	}
	u.period = period
	u.mu.Unlock()
	u.load(keyBreakdown)
	return nil
}

func (u *Usage) Snapshot() UsageState {
	u.mu.Lock()
	st := UsageState{
		Phase:        u.phaseLocked(),
		Interval:     u.query.Interval,
		StartDate:    u.query.StartDate,
		EndDate:      u.query.EndDate,
		Period:       u.period,
		History:      slices.Clone(u.history),
		HistoryQuery: u.shown,
		Breakdown:    slices.Clone(u.breakdown),
	}
	u.mu.Unlock()
	st.Notices = u.notices.State()
	return st
}
