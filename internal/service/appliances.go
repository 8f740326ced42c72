package service

import (
	"context"
	"net/url"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

type ApplianceService struct {
	api *api.Client
}

func (s *ApplianceService) List(ctx context.Context) ([]domain.Appliance, error) {
	return decode[[]domain.Appliance](s.api.Get(ctx, "/appliances", nil))
}

func (s *ApplianceService) Get(ctx context.Context, id string) (domain.Appliance, error) {
	return decode[domain.Appliance](s.api.Get(ctx, "/appliances/"+url.PathEscape(id), nil))
}

func (s *ApplianceService) Toggle(ctx context.Context, id string) (domain.Appliance, error) {
	return decode[domain.Appliance](s.api.Put(ctx, "/appliances/"+url.PathEscape(id)+"/toggle", nil))
}

func (s *ApplianceService) Update(ctx context.Context, id string, a domain.Appliance) (domain.Appliance, error) {
	return decode[domain.Appliance](s.api.Put(ctx, "/appliances/"+url.PathEscape(id), a))
}
