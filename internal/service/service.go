package service

import (
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

type Services struct {
	Appliances      *ApplianceService
	Energy          *EnergyService
	Recommendations *RecommendationService
	Settings        *SettingsService
}

func New(client *api.Client) *Services {
	return &Services{
		Appliances:      &ApplianceService{api: client},
		Energy:          &EnergyService{api: client},
		Recommendations: &RecommendationService{api: client},
		Settings:        &SettingsService{api: client},
	}
}

// decode turns an envelope into a validated record. Anything that does not fit the schema is
// reported as a malformed-payload failure.
func decode[T any](env *api.Envelope) (T, error) {
	var out T
	if err := env.Decode(&out); err != nil {
		return out, err
	}
	if err := domain.Validate(&out); err != nil {
		var zero T
		return zero, &api.Failure{Kind: api.ErrMalformed, Message: err.Error()}
	}
	return out, nil
}
