package view

import (
	"fmt"
	"strconv"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

const (
	DashboardApplianceLimit      = 6
	DashboardRecommendationLimit = 3
	UsageStatisticsLimit         = 5
)

type StatCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

func number(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// StatCards are the summary cards at the top of the dashboard. A missing snapshot shows zeros.
func StatCards(rt *domain.RealtimeSnapshot, appliances []domain.Appliance) []StatCard {
	var usage, cost float64
	if rt != nil {
		usage, cost = rt.TotalConsumption, rt.CostEstimate
	}
	active := 0
	for _, a := range appliances {
		if a.Status == domain.StatusOn {
			active++
		}
	}
	return []StatCard{
		{Title: "Current Usage", Value: number(usage) + " kWh"},
		{Title: "Estimated Cost", Value: "$" + number(cost)},
		{Title: "Active Appliances", Value: strconv.Itoa(active)},
	}
}

// ActiveAppliances returns the first limit appliances that are switched on.
func ActiveAppliances(items []domain.Appliance, limit int) []domain.Appliance {
	out := []domain.Appliance{}
	for _, a := range items {
		if len(out) == limit {
			break
		}
		if a.Status == domain.StatusOn {
			out = append(out, a)
		}
	}
	return out
}

// HighPriority returns the first limit high priority recommendations.
func HighPriority(items []domain.Recommendation, limit int) []domain.Recommendation {
	out := []domain.Recommendation{}
	for _, r := range items {
		if len(out) == limit {
			break
		}
		if r.Priority == domain.PriorityHigh {
			out = append(out, r)
		}
	}
	return out
}

type StatRow struct {
	Name        string  `json:"name"`
	Detail      string  `json:"detail"`
	Percentage  string  `json:"percentage"`
	Consumption float64 `json:"consumption"`
}

// UsageStatistics lists the leading breakdown rows of the usage screen.
func UsageStatistics(entries []domain.BreakdownEntry, limit int) []StatRow {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]StatRow, 0, len(entries))
	for _, e := range entries {
		out = append(out, StatRow{
			Name:        e.Name,
			Detail:      fmt.Sprintf("%s • %.2f kWh", e.Type, e.TotalConsumption),
			Percentage:  fmt.Sprintf("%.2f%%", float64(e.Percentage)),
			Consumption: e.TotalConsumption,
		})
	}
	return out
}
