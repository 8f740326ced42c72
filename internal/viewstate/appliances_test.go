package viewstate

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

func loadedAppliances(t *testing.T) (*Appliances, *applianceMock, *fakeClock) {
	t.Helper()
	m := &applianceMock{}
	clock := &fakeClock{}
	m.On("List", mock.Anything).Return(seedAppliances(), nil).Once()
	a := NewAppliances(m, Options{Runner: SyncRunner{}, Clock: clock})
	a.Activate(context.Background())
	require.Equal(t, PhaseReady, a.Phase())
	return a, m, clock
}

func TestAppliancesSearchKeepsFetchOrder(t *testing.T) {
	a, m, _ := loadedAppliances(t)

	a.SetQuery("living")
	assert.Equal(t, []string{"a1", "a4"}, ids(a.Visible()))

	require.NoError(t, a.SetTypeFilter(domain.ApplianceLighting))
	a.SetQuery("")
	assert.Equal(t, []string{"a1", "a4"}, ids(a.Visible()))

	require.NoError(t, a.SetTypeFilter(""))
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, ids(a.Visible()))

	assert.Error(t, a.SetTypeFilter("garden"))
	m.AssertNumberOfCalls(t, "List", 1)
}

func TestAppliancesFilterNotifiesOnlyOnChange(t *testing.T) {
	a, _, _ := loadedAppliances(t)
	calls := 0
	a.Subscribe(func() { calls++ })

	a.SetQuery("lamp")
	a.SetQuery("lamp")
	assert.Equal(t, 1, calls)
}

func TestAppliancesToggleLeavesOthersIdentical(t *testing.T) {
	a, m, _ := loadedAppliances(t)
	before := a.Snapshot().All

	returned := domain.Appliance{ID: "a2", Name: "Heat Pump", Location: "Basement", Type: domain.ApplianceHeating, Status: domain.StatusOff, PowerRating: 2400}
	m.On("Toggle", mock.Anything, "a2").Return(returned, nil).Once()
	require.NoError(t, a.Toggle(context.Background(), "a2"))

	after := a.Snapshot().All
	require.Len(t, after, len(before))
	for i := range after {
		if after[i].ID == "a2" {
			assert.Equal(t, returned, after[i])
			continue
		}
		want, err := json.Marshal(before[i])
		require.NoError(t, err)
		got, err := json.Marshal(after[i])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	m.AssertExpectations(t)
}

func TestAppliancesToggleTakesServerValueNotGuess(t *testing.T) {
	a, m, _ := loadedAppliances(t)

	// a5 is off; the server decides it goes to standby, not on.
	returned := seedAppliances()[4]
	returned.Status = domain.StatusStandby
	m.On("Toggle", mock.Anything, "a5").Return(returned, nil).Once()

	require.NoError(t, a.Toggle(context.Background(), "a5"))
	assert.Equal(t, domain.StatusStandby, a.Snapshot().All[4].Status)
}

func TestAppliancesUpdate(t *testing.T) {
	a, m, clock := loadedAppliances(t)

	edited := seedAppliances()[2]
	edited.Name = "Bedroom AC"
	edited.PowerRating = 1500
	m.On("Update", mock.Anything, "a3", edited).Return(edited, nil).Once()
	require.NoError(t, a.Update(context.Background(), "a3", edited))
	assert.Equal(t, edited, a.Snapshot().All[2])

	bad := edited
	bad.Type = "garden"
	err := a.Update(context.Background(), "a3", bad)
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Equal(t, MsgUpdateApplianceFailed, a.Notices().Current(ChannelError))
	assert.Equal(t, edited, a.Snapshot().All[2])

	clock.Advance(3 * time.Second)
	assert.Empty(t, a.Notices().Current(ChannelError))
	m.AssertExpectations(t)
}

func TestAppliancesReloadOne(t *testing.T) {
	a, m, _ := loadedAppliances(t)
	fresh := seedAppliances()[0]
	fresh.PowerRating = 75
	m.On("Get", mock.Anything, "a1").Return(fresh, nil).Once()

	require.NoError(t, a.Reload(context.Background(), "a1"))
	assert.Equal(t, 75.0, a.Snapshot().All[0].PowerRating)
}

func TestAppliancesLoadFailure(t *testing.T) {
	m := &applianceMock{}
	m.On("List", mock.Anything).Return(nil, errBackend).Once()
	a := NewAppliances(m, Options{Runner: SyncRunner{}, Clock: &fakeClock{}})
	a.Activate(context.Background())

	st := a.Snapshot()
	assert.Equal(t, PhaseError, st.Phase)
	assert.False(t, a.Loading())
	assert.Nil(t, st.All)
	assert.Nil(t, st.Visible)
	assert.Equal(t, MsgAppliancesLoadFailed, st.Notices.Error)
}

// slowFirstList holds the first List call until released and answers later calls at once.
type slowFirstList struct {
	*applianceMock
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	stale   []domain.Appliance
	fresh   []domain.Appliance
}

func (s *slowFirstList) List(ctx context.Context) ([]domain.Appliance, error) {
	if s.calls.Add(1) == 1 {
		close(s.entered)
		<-s.release
		return s.stale, nil
	}
	return s.fresh, nil
}

func TestAppliancesMutationDuringLoadReissuesList(t *testing.T) {
	fresh := seedAppliances()
	fresh[0].Status = domain.StatusOff
	src := &slowFirstList{
		applianceMock: &applianceMock{},
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
		stale:         seedAppliances(),
		fresh:         fresh,
	}
	src.On("Toggle", mock.Anything, "a1").Return(fresh[0], nil).Once()

	a := NewAppliances(src, Options{Runner: AsyncRunner{}, Clock: &fakeClock{}})
	a.Activate(context.Background())
	<-src.entered
	require.NoError(t, a.Toggle(context.Background(), "a1"))

	close(src.release)
	a.Wait()

	assert.Equal(t, domain.StatusOff, a.Snapshot().All[0].Status, "the list issued before the toggle must not win")
	assert.Equal(t, PhaseReady, a.Phase())
	assert.EqualValues(t, 2, src.calls.Load())
	src.AssertExpectations(t)
}
