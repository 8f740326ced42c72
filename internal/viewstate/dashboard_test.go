package viewstate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(DashboardSuite))
}

type DashboardSuite struct {
	suite.Suite

	appliances *applianceMock
	energy     *energyMock
	recs       *recommendationMock
	clock      *fakeClock

	snap      domain.RealtimeSnapshot
	breakdown []domain.BreakdownEntry
	daily     []domain.HistoryPoint
}

func (s *DashboardSuite) SetupTest() {
	s.appliances = &applianceMock{}
	s.energy = &energyMock{}
	s.recs = &recommendationMock{}
	s.clock = &fakeClock{}

	s.snap = domain.RealtimeSnapshot{TotalConsumption: 3.2, CostEstimate: 0.48, Timestamp: time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)}
	s.breakdown = []domain.BreakdownEntry{
		{Name: "Heat Pump", Type: domain.ApplianceHeating, TotalConsumption: 40, Percentage: 80},
		{Name: "Living Room Lamp", Type: domain.ApplianceLighting, TotalConsumption: 10, Percentage: 20},
	}
	s.daily = []domain.HistoryPoint{
		{Period: domain.Period{Year: 2024, Month: 3, Day: 13}, TotalConsumption: 20, AverageCost: 3},
		{Period: domain.Period{Year: 2024, Month: 3, Day: 14}, TotalConsumption: 22, AverageCost: 3.3},
	}
}

func (s *DashboardSuite) TearDownTest() {
	s.appliances.AssertExpectations(s.T())
	s.energy.AssertExpectations(s.T())
	s.recs.AssertExpectations(s.T())
}

func (s *DashboardSuite) newDashboard(runner Runner) *Dashboard {
	return NewDashboard(s.appliances, s.energy, s.recs, Options{Runner: runner, Clock: s.clock})
}

func (s *DashboardSuite) expectLoad() {
	s.energy.On("Realtime", mock.Anything).Return(s.snap, nil).Once()
	s.appliances.On("List", mock.Anything).Return(seedAppliances(), nil).Once()
	s.recs.On("List", mock.Anything).Return(seedRecommendations(), nil).Once()
	s.energy.On("Breakdown", mock.Anything, domain.PeriodDay).Return(s.breakdown, nil).Once()
	s.energy.On("Historical", mock.Anything, domain.HistoryQuery{Interval: domain.IntervalDaily}).Return(s.daily, nil).Once()
}

func (s *DashboardSuite) TestInitialLoad() {
	d := s.newDashboard(SyncRunner{})
	s.Equal(PhaseLoading, d.Phase(), "a screen that was never activated is loading")

	s.expectLoad()
	d.Activate(context.Background())

	st := d.Snapshot()
	s.Equal(PhaseReady, st.Phase)
	s.Equal(&s.snap, st.Realtime)
	s.Equal(seedAppliances(), st.Appliances)
	s.Equal(seedRecommendations(), st.Recommendations)
	s.Equal(s.breakdown, st.Breakdown)
	s.Equal(s.daily, st.History)
	s.Equal(NoticeState{}, st.Notices)
}

func (s *DashboardSuite) TestInitialLoadFailureLeavesNothingHalfPopulated() {
	d := s.newDashboard(SyncRunner{})
	s.energy.On("Realtime", mock.Anything).Return(s.snap, nil).Maybe()
	s.appliances.On("List", mock.Anything).Return(seedAppliances(), nil).Maybe()
	s.recs.On("List", mock.Anything).Return(nil, errBackend).Once()
	s.energy.On("Breakdown", mock.Anything, domain.PeriodDay).Return(s.breakdown, nil).Maybe()
	s.energy.On("Historical", mock.Anything, mock.Anything).Return(s.daily, nil).Maybe()

	d.Activate(context.Background())

	st := d.Snapshot()
	s.False(d.Loading())
	s.Equal(PhaseError, st.Phase)
	s.Equal(MsgDashboardLoadFailed, st.Notices.Error)
	s.Nil(st.Realtime)
	s.Nil(st.Appliances)
	s.Nil(st.Recommendations)
	s.Nil(st.Breakdown)
	s.Nil(st.History)
}

func (s *DashboardSuite) TestReloadAfterFailureRecovers() {
	d := s.newDashboard(SyncRunner{})
	s.energy.On("Realtime", mock.Anything).Return(domain.RealtimeSnapshot{}, errBackend).Once()
	s.appliances.On("List", mock.Anything).Return(seedAppliances(), nil).Maybe()
	s.recs.On("List", mock.Anything).Return(seedRecommendations(), nil).Maybe()
	s.energy.On("Breakdown", mock.Anything, mock.Anything).Return(s.breakdown, nil).Maybe()
	s.energy.On("Historical", mock.Anything, mock.Anything).Return(s.daily, nil).Maybe()
	d.Activate(context.Background())
	s.Equal(PhaseError, d.Phase())

	s.energy.On("Realtime", mock.Anything).Return(s.snap, nil).Once()
	d.Activate(context.Background())
	st := d.Snapshot()
	s.Equal(PhaseReady, st.Phase)
	s.NotNil(st.Realtime)
	s.Equal(seedAppliances(), st.Appliances)
}

func (s *DashboardSuite) TestIntervalChangeRefetchesHistoryOnly() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	weekly := []domain.HistoryPoint{{Period: domain.Period{Year: 2024, Week: 11}, TotalConsumption: 150, AverageCost: 22.5}}
	s.energy.On("Historical", mock.Anything, domain.HistoryQuery{Interval: domain.IntervalWeekly}).Return(weekly, nil).Once()

	s.Require().NoError(d.SetHistoryInterval(domain.IntervalWeekly))

	st := d.Snapshot()
	s.Equal(weekly, st.History)
	s.Equal(s.breakdown, st.Breakdown)
	s.Equal(domain.IntervalWeekly, st.Interval)
	s.energy.AssertNumberOfCalls(s.T(), "Historical", 2)
	s.energy.AssertNumberOfCalls(s.T(), "Breakdown", 1)
	s.energy.AssertNumberOfCalls(s.T(), "Realtime", 1)
	s.appliances.AssertNumberOfCalls(s.T(), "List", 1)
	s.recs.AssertNumberOfCalls(s.T(), "List", 1)
}

func (s *DashboardSuite) TestUnchangedOrInvalidParameterDoesNotFetch() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	s.Require().NoError(d.SetHistoryInterval(domain.IntervalDaily))
	s.Require().NoError(d.SetBreakdownPeriod(domain.PeriodDay))
	s.Error(d.SetHistoryInterval("fortnightly"))
	s.Error(d.SetBreakdownPeriod("year"))

	s.energy.AssertNumberOfCalls(s.T(), "Historical", 1)
	s.energy.AssertNumberOfCalls(s.T(), "Breakdown", 1)
}

func (s *DashboardSuite) TestPeriodChangeRefetchesBreakdownOnly() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	monthly := []domain.BreakdownEntry{{Name: "Heat Pump", Type: domain.ApplianceHeating, TotalConsumption: 900, Percentage: 100}}
	s.energy.On("Breakdown", mock.Anything, domain.PeriodMonth).Return(monthly, nil).Once()
	s.Require().NoError(d.SetBreakdownPeriod(domain.PeriodMonth))

	st := d.Snapshot()
	s.Equal(monthly, st.Breakdown)
	s.Equal(s.daily, st.History)
	s.energy.AssertNumberOfCalls(s.T(), "Historical", 1)
}

func (s *DashboardSuite) TestLatestIntervalWins() {
	d := s.newDashboard(AsyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())
	d.Wait()

	weekly := []domain.HistoryPoint{{Period: domain.Period{Week: 11}, TotalConsumption: 150}}
	monthly := []domain.HistoryPoint{{Period: domain.Period{Year: 2024, Month: 3}, TotalConsumption: 600}}
	release := make(chan time.Time)
	weeklyCtx := make(chan context.Context, 1)
	s.energy.On("Historical", mock.Anything, domain.HistoryQuery{Interval: domain.IntervalWeekly}).
		WaitUntil(release).
		Run(func(args mock.Arguments) { weeklyCtx <- args.Get(0).(context.Context) }).
		Return(weekly, nil).Once()
	s.energy.On("Historical", mock.Anything, domain.HistoryQuery{Interval: domain.IntervalMonthly}).
		Return(monthly, nil).Once()

	s.Require().NoError(d.SetHistoryInterval(domain.IntervalWeekly))
	s.Require().NoError(d.SetHistoryInterval(domain.IntervalMonthly))

	s.Require().Eventually(func() bool { return !d.Loading() }, time.Second, 5*time.Millisecond)
	s.Equal(monthly, d.Snapshot().History)

	close(release)
	d.Wait()

	st := d.Snapshot()
	s.Equal(monthly, st.History, "the superseded response must not overwrite the latest one")
	s.Equal(PhaseReady, st.Phase)
	s.ErrorIs((<-weeklyCtx).Err(), context.Canceled)
}

func (s *DashboardSuite) TestHistoryIntervalFollowsDisplayedSeries() {
	d := s.newDashboard(AsyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())
	d.Wait()
	s.Equal(domain.IntervalDaily, d.Snapshot().HistoryInterval)

	weekly := []domain.HistoryPoint{{Period: domain.Period{Year: 2024, Week: 11}, TotalConsumption: 150}}
	release := make(chan time.Time)
	s.energy.On("Historical", mock.Anything, domain.HistoryQuery{Interval: domain.IntervalWeekly}).
		WaitUntil(release).Return(weekly, nil).Once()

	s.Require().NoError(d.SetHistoryInterval(domain.IntervalWeekly))
	st := d.Snapshot()
	s.Equal(domain.IntervalWeekly, st.Interval)
	s.Equal(domain.IntervalDaily, st.HistoryInterval, "the daily series is still on screen")
	s.Equal(s.daily, st.History)

	close(release)
	d.Wait()
	st = d.Snapshot()
	s.Equal(domain.IntervalWeekly, st.HistoryInterval)
	s.Equal(weekly, st.History)
}

func (s *DashboardSuite) TestToggleApplianceUsesServerEntity() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	returned := domain.Appliance{ID: "a1", Name: "Living Room Lamp", Location: "Living Room", Type: domain.ApplianceLighting, Status: domain.StatusOff, PowerRating: 60}
	s.appliances.On("Toggle", mock.Anything, "a1").Return(returned, nil).Once()

	s.Require().NoError(d.ToggleAppliance(context.Background(), "a1"))
	s.Equal(returned, d.Snapshot().Appliances[0])
}

func (s *DashboardSuite) TestToggleFailureKeepsState() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())
	before := d.Snapshot().Appliances

	s.appliances.On("Toggle", mock.Anything, "a1").Return(nil, errBackend).Once()
	s.ErrorIs(d.ToggleAppliance(context.Background(), "a1"), errBackend)

	st := d.Snapshot()
	s.Equal(before, st.Appliances)
	s.Equal(MsgToggleFailed, st.Notices.Error)
	s.Equal(PhaseReady, st.Phase)

	s.clock.Advance(DefaultNoticeTTL)
	s.Empty(d.Snapshot().Notices.Error)
}

func (s *DashboardSuite) TestRecommendationImplemented() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	done := seedRecommendations()[1]
	done.Implemented = true
	s.recs.On("UpdateStatus", mock.Anything, "r2", true).Return(done, nil).Once()

	s.Require().NoError(d.SetRecommendationImplemented(context.Background(), "r2", true))
	s.True(d.Snapshot().Recommendations[1].Implemented)
}

func (s *DashboardSuite) TestApplyRealtimeIgnoresOlderSnapshots() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	older := s.snap
	older.Timestamp = s.snap.Timestamp.Add(-time.Minute)
	older.TotalConsumption = 99
	s.False(d.ApplyRealtime(older))
	s.Equal(3.2, d.Snapshot().Realtime.TotalConsumption)

	newer := s.snap
	newer.Timestamp = s.snap.Timestamp.Add(time.Minute)
	newer.TotalConsumption = 4.1
	s.True(d.ApplyRealtime(newer))
	s.Equal(4.1, d.Snapshot().Realtime.TotalConsumption)
}

func (s *DashboardSuite) TestUndatedReadsReplacePushedSnapshot() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	pushed := s.snap
	pushed.Timestamp = s.snap.Timestamp.Add(time.Hour)
	pushed.TotalConsumption = 2.0
	s.Require().True(d.ApplyRealtime(pushed))

	s.energy.On("Realtime", mock.Anything).Return(domain.RealtimeSnapshot{TotalConsumption: 9.9}, nil).Once()
	d.RefreshRealtime()
	s.Equal(9.9, d.Snapshot().Realtime.TotalConsumption)

	s.Require().True(d.ApplyRealtime(pushed))
	s.energy.On("Realtime", mock.Anything).Return(domain.RealtimeSnapshot{TotalConsumption: 7.7}, nil).Once()
	s.appliances.On("List", mock.Anything).Return(seedAppliances(), nil).Once()
	s.recs.On("List", mock.Anything).Return(seedRecommendations(), nil).Once()
	s.energy.On("Breakdown", mock.Anything, domain.PeriodDay).Return(s.breakdown, nil).Once()
	s.energy.On("Historical", mock.Anything, domain.HistoryQuery{Interval: domain.IntervalDaily}).Return(s.daily, nil).Once()
	d.Activate(context.Background())
	s.Equal(7.7, d.Snapshot().Realtime.TotalConsumption)

	next := pushed
	next.TotalConsumption = 1.0
	s.True(d.ApplyRealtime(next), "a dated push replaces an undated read")
	s.Equal(1.0, d.Snapshot().Realtime.TotalConsumption)
}

func (s *DashboardSuite) TestRefreshRealtimeIsQuiet() {
	d := s.newDashboard(SyncRunner{})
	s.expectLoad()
	d.Activate(context.Background())

	next := s.snap
	next.Timestamp = next.Timestamp.Add(10 * time.Second)
	next.TotalConsumption = 3.5
	s.energy.On("Realtime", mock.Anything).Return(next, nil).Once()
	s.energy.On("Realtime", mock.Anything).Return(domain.RealtimeSnapshot{}, errBackend).Once()

	phases := []Phase{}
	unsubscribe := d.Subscribe(func() { phases = append(phases, d.Phase()) })
	defer unsubscribe()

	d.RefreshRealtime()
	s.Equal(3.5, d.Snapshot().Realtime.TotalConsumption)

	d.RefreshRealtime()
	st := d.Snapshot()
	s.Equal(3.5, st.Realtime.TotalConsumption, "a failed refresh keeps the held snapshot")
	s.Empty(st.Notices.Error)
	s.NotContains(phases, PhaseLoading)
}
