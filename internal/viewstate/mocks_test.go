package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

type applianceMock struct{ mock.Mock }

func (m *applianceMock) List(ctx context.Context) ([]domain.Appliance, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Appliance)
	return items, args.Error(1)
}

func (m *applianceMock) Get(ctx context.Context, id string) (domain.Appliance, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(domain.Appliance)
	return a, args.Error(1)
}

func (m *applianceMock) Toggle(ctx context.Context, id string) (domain.Appliance, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(domain.Appliance)
	return a, args.Error(1)
}

func (m *applianceMock) Update(ctx context.Context, id string, a domain.Appliance) (domain.Appliance, error) {
	args := m.Called(ctx, id, a)
	out, _ := args.Get(0).(domain.Appliance)
	return out, args.Error(1)
}

type energyMock struct{ mock.Mock }

func (m *energyMock) Realtime(ctx context.Context) (domain.RealtimeSnapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(domain.RealtimeSnapshot)
	return snap, args.Error(1)
}

func (m *energyMock) Breakdown(ctx context.Context, period domain.BreakdownPeriod) ([]domain.BreakdownEntry, error) {
	args := m.Called(ctx, period)
	entries, _ := args.Get(0).([]domain.BreakdownEntry)
	return entries, args.Error(1)
}

func (m *energyMock) Historical(ctx context.Context, q domain.HistoryQuery) ([]domain.HistoryPoint, error) {
	args := m.Called(ctx, q)
	points, _ := args.Get(0).([]domain.HistoryPoint)
	return points, args.Error(1)
}

type recommendationMock struct{ mock.Mock }

func (m *recommendationMock) List(ctx context.Context) ([]domain.Recommendation, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Recommendation)
	return items, args.Error(1)
}

func (m *recommendationMock) UpdateStatus(ctx context.Context, id string, implemented bool) (domain.Recommendation, error) {
	args := m.Called(ctx, id, implemented)
	r, _ := args.Get(0).(domain.Recommendation)
	return r, args.Error(1)
}

func (m *recommendationMock) Generate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type settingsMock struct{ mock.Mock }

func (m *settingsMock) Get(ctx context.Context) (domain.UserSettings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(domain.UserSettings)
	return s, args.Error(1)
}

func (m *settingsMock) Update(ctx context.Context, s domain.UserSettings) (domain.UserSettings, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(domain.UserSettings)
	return out, args.Error(1)
}

func (m *settingsMock) AddRule(ctx context.Context, rule domain.AutomationRule) (domain.UserSettings, error) {
	args := m.Called(ctx, rule)
	out, _ := args.Get(0).(domain.UserSettings)
	return out, args.Error(1)
}

func (m *settingsMock) UpdateRule(ctx context.Context, id string, rule domain.AutomationRule) (domain.UserSettings, error) {
	args := m.Called(ctx, id, rule)
	out, _ := args.Get(0).(domain.UserSettings)
	return out, args.Error(1)
}

func (m *settingsMock) DeleteRule(ctx context.Context, id string) (domain.UserSettings, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(domain.UserSettings)
	return out, args.Error(1)
}

// fakeClock fires timers only when Advance moves past their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.fn)
		}
	}
	c.mu.Unlock()
	for _, fn := range due {
		fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

var errBackend = errors.New("backend unavailable")

func seedAppliances() []domain.Appliance {
	return []domain.Appliance{
		{ID: "a1", Name: "Living Room Lamp", Location: "Living Room", Type: domain.ApplianceLighting, Status: domain.StatusOn, PowerRating: 60},
		{ID: "a2", Name: "Heat Pump", Location: "Basement", Type: domain.ApplianceHeating, Status: domain.StatusOn, PowerRating: 2400},
		{ID: "a3", Name: "Air Conditioner", Location: "Bedroom", Type: domain.ApplianceCooling, Status: domain.StatusOff, PowerRating: 1800},
		{ID: "a4", Name: "Floor Lamp", Location: "living room corner", Type: domain.ApplianceLighting, Status: domain.StatusStandby, PowerRating: 40},
		{ID: "a5", Name: "Television", Location: "Den", Type: domain.ApplianceEntertainment, Status: domain.StatusOff, PowerRating: 120},
	}
}

func seedRecommendations() []domain.Recommendation {
	return []domain.Recommendation{
		{ID: "r1", Title: "Lower the thermostat", Category: domain.CategoryBehavior, Priority: domain.PriorityHigh, PotentialSavings: 10},
		{ID: "r2", Title: "Run the dishwasher at night", Category: domain.CategoryScheduling, Priority: domain.PriorityMedium, PotentialSavings: 5},
		{ID: "r3", Title: "Replace old fridge", Category: domain.CategoryUpgrade, Priority: domain.PriorityLow, PotentialSavings: 15},
	}
}
