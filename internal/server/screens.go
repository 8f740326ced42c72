package server

import (
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/service"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/viewstate"
)

func NewScreens(svcs *service.Services, opts viewstate.Options) Screens {
	return Screens{
		Dashboard:       viewstate.NewDashboard(svcs.Appliances, svcs.Energy, svcs.Recommendations, opts),
		Usage:           viewstate.NewUsage(svcs.Energy, opts),
		Appliances:      viewstate.NewAppliances(svcs.Appliances, opts),
		Recommendations: viewstate.NewRecommendations(svcs.Recommendations, opts),
		Settings:        viewstate.NewSettings(svcs.Settings, opts),
	}
}

// Close cancels pending reads and notice timers of every screen.
func (sc Screens) Close() {
	sc.Dashboard.Close()
	sc.Usage.Close()
	sc.Appliances.Close()
	sc.Recommendations.Close()
	sc.Settings.Close()
}

// Wait blocks until no read of any screen is in flight.
func (sc Screens) Wait() {
	sc.Dashboard.Wait()
	sc.Usage.Wait()
	sc.Appliances.Wait()
	sc.Recommendations.Wait()
	sc.Settings.Wait()
}
