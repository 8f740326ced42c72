package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ApplianceType string

const (
	ApplianceLighting      ApplianceType = "lighting"
	ApplianceHeating       ApplianceType = "heating"
	ApplianceCooling       ApplianceType = "cooling"
	ApplianceKitchen       ApplianceType = "kitchen"
	ApplianceEntertainment ApplianceType = "entertainment"
	ApplianceOther         ApplianceType = "other"
)

// ApplianceTypes lists the appliance types in the order the filter bar shows them.
var ApplianceTypes = []ApplianceType{
	ApplianceLighting, ApplianceHeating, ApplianceCooling,
	ApplianceKitchen, ApplianceEntertainment, ApplianceOther,
}

type ApplianceStatus string

const (
	StatusOn      ApplianceStatus = "on"
	StatusOff     ApplianceStatus = "off"
	StatusStandby ApplianceStatus = "standby"
)

type Appliance struct {
	ID          string          `json:"_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Location    string          `json:"location"`
	Type        ApplianceType   `json:"type" validate:"oneof=lighting heating cooling kitchen entertainment other"`
	Status      ApplianceStatus `json:"status" validate:"oneof=on off standby"`
	PowerRating float64         `json:"powerRating" validate:"gte=0"`
}

func (a Appliance) Key() string { return a.ID }

type RecommendationCategory string

const (
	CategoryBehavior   RecommendationCategory = "behavior"
	CategoryAppliance  RecommendationCategory = "appliance"
	CategoryScheduling RecommendationCategory = "scheduling"
	CategoryUpgrade    RecommendationCategory = "upgrade"
)

var RecommendationCategories = []RecommendationCategory{
	CategoryBehavior, CategoryAppliance, CategoryScheduling, CategoryUpgrade,
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Recommendation struct {
	ID               string                 `json:"_id" validate:"required"`
	Title            string                 `json:"title" validate:"required"`
	Description      string                 `json:"description"`
	PotentialSavings float64                `json:"potentialSavings" validate:"gte=0"`
	Category         RecommendationCategory `json:"category" validate:"oneof=behavior appliance scheduling upgrade"`
	Priority         Priority               `json:"priority" validate:"oneof=low medium high"`
	Implemented      bool                   `json:"implemented"`
}

func (r Recommendation) Key() string { return r.ID }

// RealtimeSnapshot is the current consumption figure shown on the dashboard cards.
type RealtimeSnapshot struct {
	TotalConsumption float64   `json:"totalConsumption" validate:"gte=0"`
	CostEstimate     float64   `json:"costEstimate" validate:"gte=0"`
	Timestamp        time.Time `json:"timestamp"`
}

type BreakdownPeriod string

const (
	PeriodDay   BreakdownPeriod = "day"
	PeriodWeek  BreakdownPeriod = "week"
	PeriodMonth BreakdownPeriod = "month"
)

func ParseBreakdownPeriod(s string) (BreakdownPeriod, error) {
	switch p := BreakdownPeriod(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown breakdown period %q", ErrInvalid, s)
}

type HistoryInterval string

const (
	IntervalHourly  HistoryInterval = "hourly"
	IntervalDaily   HistoryInterval = "daily"
	IntervalWeekly  HistoryInterval = "weekly"
	IntervalMonthly HistoryInterval = "monthly"
)

func ParseHistoryInterval(s string) (HistoryInterval, error) {
	switch i := HistoryInterval(s); i {
	case IntervalHourly, IntervalDaily, IntervalWeekly, IntervalMonthly:
		return i, nil
	}
	return "", fmt.Errorf("%w: unknown history interval %q", ErrInvalid, s)
}

// Period identifies the bucket of a history point. Only the fields relevant to the
// requested interval are set by the server.
type Period struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Week  int `json:"week,omitempty"`
	Day   int `json:"day,omitempty"`
	Hour  int `json:"hour,omitempty"`
}

type HistoryPoint struct {
	Period           Period  `json:"period"`
	TotalConsumption float64 `json:"totalConsumption" validate:"gte=0"`
	AverageCost      float64 `json:"averageCost" validate:"gte=0"`
}

// HistoryQuery selects a history series. Dates are passed through as the server expects them
// (YYYY-MM-DD); empty means unbounded.
type HistoryQuery struct {
	Interval  HistoryInterval
	StartDate string
	EndDate   string
}

// Percent accepts both numbers and numeric strings; the breakdown endpoint sends
// preformatted strings such as "12.50".
type Percent float64

func (p *Percent) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("percentage %s: %w", b, err)
	}
	*p = Percent(v)
	return nil
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

type BreakdownEntry struct {
	Name             string        `json:"name" validate:"required"`
	Type             ApplianceType `json:"type"`
	TotalConsumption float64       `json:"totalConsumption" validate:"gte=0"`
	Percentage       Percent       `json:"percentage" validate:"gte=0,lte=100"`
}

type EmailPreference struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address" validate:"omitempty,email"`
}

type PushPreference struct {
	Enabled bool `json:"enabled"`
}

type NotificationPreferences struct {
	Email                   EmailPreference `json:"email"`
	Push                    PushPreference  `json:"push"`
	NotifyOnHighConsumption bool            `json:"notifyOnHighConsumption"`
	NotifyOnRecommendations bool            `json:"notifyOnRecommendations"`
}

type AutomationRule struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name" validate:"required"`
	Condition string `json:"condition"`
	Action    string `json:"action"`
	Active    bool   `json:"active"`
}

type DashboardLayout struct {
	ShowEnergyGraph        bool `json:"showEnergyGraph"`
	ShowApplianceBreakdown bool `json:"showApplianceBreakdown"`
	ShowCostEstimates      bool `json:"showCostEstimates"`
	ShowRecommendations    bool `json:"showRecommendations"`
}

type Widget string

const (
	WidgetEnergyGraph        Widget = "energyGraph"
	WidgetApplianceBreakdown Widget = "applianceBreakdown"
	WidgetCostEstimates      Widget = "costEstimates"
	WidgetRecommendations    Widget = "recommendations"
)

// Set flips the visibility toggle of w. Unknown widgets are reported as an error.
func (l *DashboardLayout) Set(w Widget, visible bool) error {
	switch w {
	case WidgetEnergyGraph:
		l.ShowEnergyGraph = visible
	case WidgetApplianceBreakdown:
		l.ShowApplianceBreakdown = visible
	case WidgetCostEstimates:
		l.ShowCostEstimates = visible
	case WidgetRecommendations:
		l.ShowRecommendations = visible
	default:
		return fmt.Errorf("%w: unknown widget %q", ErrInvalid, w)
	}
	return nil
}

type UserSettings struct {
	ID                      string                  `json:"_id,omitempty"`
	EnergyPricePerKWh       float64                 `json:"energyPricePerKWh" validate:"gte=0"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	AutomationRules         []AutomationRule        `json:"automationRules" validate:"dive"`
	DashboardLayout         DashboardLayout         `json:"dashboardLayout"`
}

// Clone returns a deep copy so drafts never share the rule slice with the server copy.
func (s UserSettings) Clone() UserSettings {
	out := s
	if s.AutomationRules != nil {
		out.AutomationRules = make([]AutomationRule, len(s.AutomationRules))
		copy(out.AutomationRules, s.AutomationRules)
	}
	return out
}
