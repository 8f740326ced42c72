package viewstate

import (
	"strings"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

// ApplianceFilter is the search box plus the type buttons of the appliances screen.
// An empty Type means all types.
type ApplianceFilter struct {
	Query string               `json:"query"`
	Type  domain.ApplianceType `json:"type,omitempty"`
}

func (f ApplianceFilter) Match(a domain.Appliance) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(a.Name), q) || strings.Contains(strings.ToLower(a.Location), q)
}

func FilterAppliances(items []domain.Appliance, f ApplianceFilter) []domain.Appliance {
	if items == nil {
		return nil
	}
	out := make([]domain.Appliance, 0, len(items))
	for _, a := range items {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// FilterRecommendations keeps the recommendations of one category; empty keeps all.
func FilterRecommendations(items []domain.Recommendation, category domain.RecommendationCategory) []domain.Recommendation {
	if items == nil {
		return nil
	}
	out := make([]domain.Recommendation, 0, len(items))
	for _, r := range items {
		if category == "" || r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
