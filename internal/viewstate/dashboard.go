package viewstate

import (
	"context"
	"slices"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

// Dashboard is the overview screen: the realtime snapshot, the appliance and recommendation
// lists, the breakdown for the selected period and the history for the selected interval.
type Dashboard struct {
	*screen

	appliances      ApplianceSource
	energy          EnergySource
	recommendations RecommendationSource

	period   domain.BreakdownPeriod
	interval domain.HistoryInterval

	realtime  *domain.RealtimeSnapshot
	items     Collection[domain.Appliance]
	recs      Collection[domain.Recommendation]
	breakdown []domain.BreakdownEntry
	history   []domain.HistoryPoint
	shown     domain.HistoryInterval
}

// DashboardState is a copy of the screen state. Interval is the selected interval;
// HistoryInterval is the one History was fetched with, which lags while a refetch runs.
type DashboardState struct {
	Phase           Phase                    `json:"phase"`
	Notices         NoticeState              `json:"notices"`
	Period          domain.BreakdownPeriod   `json:"period"`
	Interval        domain.HistoryInterval   `json:"interval"`
	Realtime        *domain.RealtimeSnapshot `json:"realtime"`
	Appliances      []domain.Appliance       `json:"appliances"`
	Recommendations []domain.Recommendation  `json:"recommendations"`
	Breakdown       []domain.BreakdownEntry  `json:"breakdown"`
	History         []domain.HistoryPoint    `json:"history"`
	HistoryInterval domain.HistoryInterval   `json:"historyInterval"`
}

func NewDashboard(appliances ApplianceSource, energy EnergySource, recs RecommendationSource, opts Options) *Dashboard {
	d := &Dashboard{
		screen:          newScreen("dashboard", MsgDashboardLoadFailed, opts),
		appliances:      appliances,
		energy:          energy,
		recommendations: recs,
		period:          domain.PeriodDay,
		interval:        domain.IntervalDaily,
	}

	d.register(source{
		key: keyRealtime,
		prepare: func() fetchFunc {
			return func(ctx context.Context) (func(), error) {
				snap, err := d.energy.Realtime(ctx)
				if err != nil {
					return nil, err
				}
				return func() { d.storeFetchedRealtimeLocked(snap) }, nil
			}
		},
		reset: func() { d.realtime = nil },
	})
	d.register(source{
		key: keyAppliances,
		prepare: func() fetchFunc {
			return func(ctx context.Context) (func(), error) {
				items, err := d.appliances.List(ctx)
				if err != nil {
					return nil, err
				}
				return func() { d.items = NewCollection(items) }, nil
			}
		},
		reset: func() { d.items = Collection[domain.Appliance]{} },
	})
	d.register(source{
		key: keyRecommendations,
		prepare: func() fetchFunc {
			return func(ctx context.Context) (func(), error) {
				items, err := d.recommendations.List(ctx)
				if err != nil {
					return nil, err
				}
				return func() { d.recs = NewCollection(items) }, nil
			}
		},
		reset: func() { d.recs = Collection[domain.Recommendation]{} },
	})
	d.register(source{
		key: keyBreakdown,
		prepare: func() fetchFunc {
			period := d.period
			return func(ctx context.Context) (func(), error) {
				entries, err := d.energy.Breakdown(ctx, period)
				if err != nil {
					return nil, err
				}
				return func() { d.breakdown = nonNil(entries) }, nil
			}
		},
		reset: func() { d.breakdown = nil },
	})
	d.register(source{
		key: keyHistory,
		prepare: func() fetchFunc {
			q := domain.HistoryQuery{Interval: d.interval}
			return func(ctx context.Context) (func(), error) {
				points, err := d.energy.Historical(ctx, q)
				if err != nil {
					return nil, err
				}
				return func() { d.history, d.shown = nonNil(points), q.Interval }, nil
			}
		},
		reset: func() { d.history, d.shown = nil, "" },
	})
	return d
}

// Activate issues every read of the screen. Calling it again reloads everything.
func (d *Dashboard) Activate(ctx context.Context) {
	d.activate(ctx, keyRealtime, keyAppliances, keyRecommendations, keyBreakdown, keyHistory)
}

// SetHistoryInterval reloads the history series only, and only when the interval changes.
func (d *Dashboard) SetHistoryInterval(interval domain.HistoryInterval) error {
	if _, err := domain.ParseHistoryInterval(string(interval)); err != nil {
		return err
	}
	d.mu.Lock()
	if d.interval == interval {
		d.mu.Unlock()
		return nil
	}
	d.interval = interval
	d.mu.Unlock()
	d.load(keyHistory)
	return nil
}

// SetBreakdownPeriod reloads the breakdown only, and only when the period changes.
func (d *Dashboard) SetBreakdownPeriod(period domain.BreakdownPeriod) error {
	if _, err := domain.ParseBreakdownPeriod(string(period)); err != nil {
		return err
	}
	d.mu.Lock()
	if d.period == period {
		d.mu.Unlock()
		return nil
	}
	d.period = period
	d.mu.Unlock()
	d.load(keyBreakdown)
	return nil
}

func (d *Dashboard) ToggleAppliance(ctx context.Context, id string) error {
	return d.mutate(ctx, keyAppliances, MsgToggleFailed, func(ctx context.Context) (func(), error) {
		a, err := d.appliances.Toggle(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() { d.items, _ = d.items.Replace(id, a) }, nil
	})
}

func (d *Dashboard) SetRecommendationImplemented(ctx context.Context, id string, implemented bool) error {
	return d.mutate(ctx, keyRecommendations, MsgStatusFailed, func(ctx context.Context) (func(), error) {
		r, err := d.recommendations.UpdateStatus(ctx, id, implemented)
		if err != nil {
			return nil, err
		}
		return func() { d.recs, _ = d.recs.Replace(id, r) }, nil
	})
}

// RefreshRealtime re-reads the realtime snapshot without entering the loading phase.
func (d *Dashboard) RefreshRealtime() { d.refresh(keyRealtime) }

// ApplyRealtime takes a snapshot pushed by the live feed. Snapshots older than the one held
// are ignored. It reports whether the snapshot was taken.
func (d *Dashboard) ApplyRealtime(snap domain.RealtimeSnapshot) bool {
	d.mu.Lock()
	ok := d.applyRealtimeLocked(snap)
	d.mu.Unlock()
	if ok {
		d.changed()
	}
	return ok
}

func (d *Dashboard) applyRealtimeLocked(snap domain.RealtimeSnapshot) bool {
	if d.realtime != nil && snap.Timestamp.Before(d.realtime.Timestamp) {
		return false
	}
	d.realtime = &snap
	return true
}

// storeFetchedRealtimeLocked commits a snapshot read from the API. The API may omit the
// timestamp; an undated read always replaces the held snapshot.
func (d *Dashboard) storeFetchedRealtimeLocked(snap domain.RealtimeSnapshot) {
	if snap.Timestamp.IsZero() {
		d.realtime = &snap
		return
	}
	d.applyRealtimeLocked(snap)
}

func (d *Dashboard) Snapshot() DashboardState {
	d.mu.Lock()
	st := DashboardState{
		Phase:           d.phaseLocked(),
		Period:          d.period,
		Interval:        d.interval,
		Appliances:      d.items.Items(),
		Recommendations: d.recs.Items(),
		Breakdown:       slices.Clone(d.breakdown),
		History:         slices.Clone(d.history),
		HistoryInterval: d.shown,
	}
	if d.realtime != nil {
		rt := *d.realtime
		st.Realtime = &rt
	}
	d.mu.Unlock()
	st.Notices = d.notices.State()
	return st
}
