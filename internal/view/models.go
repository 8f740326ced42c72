package view

import (
	"strings"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/viewstate"
)

// Option is one button of a filter bar.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

var categoryLabels = map[domain.RecommendationCategory]string{
	domain.CategoryBehavior:   "Behavior Change",
	domain.CategoryAppliance:  "Appliance Specific",
	domain.CategoryScheduling: "Scheduling",
	domain.CategoryUpgrade:    "Upgrades",
}

type DashboardModel struct {
	Phase           viewstate.Phase         `json:"phase"`
	Notices         viewstate.NoticeState   `json:"notices"`
	Cards           []StatCard              `json:"cards"`
	Interval        domain.HistoryInterval  `json:"interval"`
	Period          domain.BreakdownPeriod  `json:"period"`
	History         LineChart               `json:"history"`
	Breakdown       DonutChart              `json:"breakdown"`
	Appliances      []domain.Appliance      `json:"appliances"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

func Dashboard(st viewstate.DashboardState) DashboardModel {
	return DashboardModel{
		Phase:           st.Phase,
		Notices:         st.Notices,
		Cards:           StatCards(st.Realtime, st.Appliances),
		Interval:        st.Interval,
		Period:          st.Period,
		History:         HistoryChart(st.HistoryInterval, st.History, false),
		Breakdown:       BreakdownChart(st.Breakdown),
		Appliances:      ActiveAppliances(st.Appliances, DashboardApplianceLimit),
		Recommendations: HighPriority(st.Recommendations, DashboardRecommendationLimit),
	}
}

type UsageModel struct {
	Phase      viewstate.Phase        `json:"phase"`
	Notices    viewstate.NoticeState  `json:"notices"`
	Interval   domain.HistoryInterval `json:"interval"`
	StartDate  string                 `json:"startDate"`
	EndDate    string                 `json:"endDate"`
	Period     domain.BreakdownPeriod `json:"period"`
	History    LineChart              `json:"history"`
	Breakdown  DonutChart             `json:"breakdown"`
	Statistics []StatRow              `json:"statistics"`
}

func Usage(st viewstate.UsageState) UsageModel {
	return UsageModel{
		Phase:      st.Phase,
		Notices:    st.Notices,
		Interval:   st.Interval,
		StartDate:  st.StartDate,
		EndDate:    st.EndDate,
		Period:     st.Period,
		History:    HistoryChart(st.Query().Interval, st.History, true),
		Breakdown:  BreakdownChart(st.Breakdown),
		Statistics: UsageStatistics(st.Breakdown, UsageStatisticsLimit),
	}
}

type AppliancesModel struct {
	Phase      viewstate.Phase       `json:"phase"`
	Notices    viewstate.NoticeState `json:"notices"`
	Query      string                `json:"query"`
	Types      []Option              `json:"types"`
	Appliances []domain.Appliance    `json:"appliances"`
	Total      int                   `json:"total"`
}

func Appliances(st viewstate.AppliancesState) AppliancesModel {
	types := []Option{{Value: "", Label: "All", Active: st.Filter.Type == ""}}
	for _, t := range domain.ApplianceTypes {
		types = append(types, Option{Value: string(t), Label: title(string(t)), Active: st.Filter.Type == t})
	}
	return AppliancesModel{
		Phase:      st.Phase,
		Notices:    st.Notices,
		Query:      st.Filter.Query,
		Types:      types,
		Appliances: nonNil(st.Visible),
		Total:      len(st.All),
	}
}

type RecommendationsModel struct {
	Phase           viewstate.Phase         `json:"phase"`
	Notices         viewstate.NoticeState   `json:"notices"`
	Categories      []Option                `json:"categories"`
	Generating      bool                    `json:"generating"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

func Recommendations(st viewstate.RecommendationsState) RecommendationsModel {
	cats := []Option{{Value: "", Label: "All", Active: st.Category == ""}}
	for _, c := range domain.RecommendationCategories {
		cats = append(cats, Option{Value: string(c), Label: categoryLabels[c], Active: st.Category == c})
	}
	return RecommendationsModel{
		Phase:           st.Phase,
		Notices:         st.Notices,
		Categories:      cats,
		Generating:      st.Generating,
		Recommendations: nonNil(st.Visible),
	}
}

type SettingsModel struct {
	Phase    viewstate.Phase       `json:"phase"`
	Notices  viewstate.NoticeState `json:"notices"`
	Settings *domain.UserSettings  `json:"settings"`
	Dirty    bool                  `json:"dirty"`
	Saving   bool                  `json:"saving"`
}

// Settings renders the draft, which is what the form edits.
func Settings(st viewstate.SettingsState) SettingsModel {
	return SettingsModel{
		Phase:    st.Phase,
		Notices:  st.Notices,
		Settings: st.Draft,
		Dirty:    st.Dirty,
		Saving:   st.Saving,
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
