package service

import (
	"context"
	"net/url"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

type RecommendationService struct {
	api *api.Client
}

type statusUpdate struct {
	Implemented bool `json:"implemented"`
}

func (s *RecommendationService) List(ctx context.Context) ([]domain.Recommendation, error) {
	return decode[[]domain.Recommendation](s.api.Get(ctx, "/recommendations", nil))
}

func (s *RecommendationService) UpdateStatus(ctx context.Context, id string, implemented bool) (domain.Recommendation, error) {
	env := s.api.Put(ctx, "/recommendations/"+url.PathEscape(id)+"/status", statusUpdate{Implemented: implemented})
	return decode[domain.Recommendation](env)
}

// Generate asks the server to create new recommendations. The payload is not interpreted:
// callers refetch the list because the number of new entries is up to the server.
func (s *RecommendationService) Generate(ctx context.Context) error {
	return s.api.Post(ctx, "/recommendations/generate", nil).Err()
}
