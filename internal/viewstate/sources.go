package viewstate

import (
	"context"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

// The screens depend on these narrow views of the services so tests can swap in doubles.

type ApplianceSource interface {
	List(ctx context.Context) ([]domain.Appliance, error)
	Get(ctx context.Context, id string) (domain.Appliance, error)
	Toggle(ctx context.Context, id string) (domain.Appliance, error)
	Update(ctx context.Context, id string, a domain.Appliance) (domain.Appliance, error)
}

type EnergySource interface {
	Realtime(ctx context.Context) (domain.RealtimeSnapshot, error)
	Breakdown(ctx context.Context, period domain.BreakdownPeriod) ([]domain.BreakdownEntry, error)
	Historical(ctx context.Context, q domain.HistoryQuery) ([]domain.HistoryPoint, error)
}

type RecommendationSource interface {
	List(ctx context.Context) ([]domain.Recommendation, error)
	UpdateStatus(ctx context.Context, id string, implemented bool) (domain.Recommendation, error)
	Generate(ctx context.Context) error
}

type SettingsSource interface {
	Get(ctx context.Context) (domain.UserSettings, error)
	Update(ctx context.Context, s domain.UserSettings) (domain.UserSettings, error)
	AddRule(ctx context.Context, rule domain.AutomationRule) (domain.UserSettings, error)
	UpdateRule(ctx context.Context, id string, rule domain.AutomationRule) (domain.UserSettings, error)
	DeleteRule(ctx context.Context, id string) (domain.UserSettings, error)
}

// nonNil turns a missing list into a loaded empty one.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
