package stubapi

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	errInjected = errors.New("injected failure")
)

// Store is the in-memory state behind the stub API.
type Store struct {
	mu              sync.Mutex
	appliances      []domain.Appliance
	recommendations []domain.Recommendation
	settings        domain.UserSettings
	failures        map[string]string
	now             func() time.Time
}

func NewStore() *Store {
	s := &Store{
		failures: make(map[string]string),
		now:      time.Now,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	s.appliances = []domain.Appliance{
		{ID: "a1", Name: "Living Room Lamp", Location: "Living Room", Type: domain.ApplianceLighting, Status: domain.StatusOn, PowerRating: 60},
		{ID: "a2", Name: "Heat Pump", Location: "Utility Room", Type: domain.ApplianceHeating, Status: domain.StatusOn, PowerRating: 2400},
		{ID: "a3", Name: "Air Conditioner", Location: "Bedroom", Type: domain.ApplianceCooling, Status: domain.StatusOff, PowerRating: 1800},
		{ID: "a4", Name: "Refrigerator", Location: "Kitchen", Type: domain.ApplianceKitchen, Status: domain.StatusOn, PowerRating: 150},
		{ID: "a5", Name: "Television", Location: "Living Room", Type: domain.ApplianceEntertainment, Status: domain.StatusStandby, PowerRating: 120},
		{ID: "a6", Name: "Washing Machine", Location: "Laundry", Type: domain.ApplianceOther, Status: domain.StatusOff, PowerRating: 500},
	}
	s.recommendations = []domain.Recommendation{
		{ID: "r1", Title: "Lower the heat pump setpoint", Description: "Dropping the setpoint by 1°C saves energy without noticeable comfort loss.", PotentialSavings: 8, Category: domain.CategoryBehavior, Priority: domain.PriorityHigh},
		{ID: "r2", Title: "Run the washing machine off-peak", Description: "Shift laundry to night tariff hours.", PotentialSavings: 5, Category: domain.CategoryScheduling, Priority: domain.PriorityMedium},
		{ID: "r3", Title: "Switch off standby devices", Description: "The television draws power on standby.", PotentialSavings: 2, Category: domain.CategoryAppliance, Priority: domain.PriorityLow},
	}
	s.settings = domain.UserSettings{
		ID:                "settings-1",
		EnergyPricePerKWh: 0.15,
		NotificationPreferences: domain.NotificationPreferences{
			Email:                   domain.EmailPreference{Enabled: true, Address: "home@example.com"},
			NotifyOnHighConsumption: true,
		},
		AutomationRules: []domain.AutomationRule{
			{ID: "rule-1", Name: "Night mode", Condition: "time is 23:00", Action: "turn off lighting", Active: true},
		},
		DashboardLayout: domain.DashboardLayout{
			ShowEnergyGraph: true, ShowApplianceBreakdown: true, ShowCostEstimates: true, ShowRecommendations: true,
		},
	}
}

// Fail makes the next calls of op answer with success=false until cleared with an empty message.
func (s *Store) Fail(op, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		delete(s.failures, op)
		return
	}
	s.failures[op] = message
}

func (s *Store) failure(op string) error {
	if msg, ok := s.failures[op]; ok {
		return fmt.Errorf("%w: %s", errInjected, msg)
	}
	return nil
}

func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Appliances() ([]domain.Appliance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("appliances.list"); err != nil {
		return nil, err
	}
	return append([]domain.Appliance(nil), s.appliances...), nil
}

func (s *Store) Appliance(id string) (domain.Appliance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("appliances.get"); err != nil {
		return domain.Appliance{}, err
	}
	i := s.applianceIndex(id)
	if i < 0 {
		return domain.Appliance{}, ErrNotFound
	}
	return s.appliances[i], nil
}

func (s *Store) applianceIndex(id string) int {
	for i, a := range s.appliances {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) ToggleAppliance(id string) (domain.Appliance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("appliances.toggle"); err != nil {
		return domain.Appliance{}, err
	}
	i := s.applianceIndex(id)
	if i < 0 {
		return domain.Appliance{}, ErrNotFound
	}
	if s.appliances[i].Status == domain.StatusOn {
		s.appliances[i].Status = domain.StatusOff
	} else {
		s.appliances[i].Status = domain.StatusOn
	}
	return s.appliances[i], nil
}

func (s *Store) UpdateAppliance(id string, in domain.Appliance) (domain.Appliance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("appliances.update"); err != nil {
		return domain.Appliance{}, err
	}
	i := s.applianceIndex(id)
	if i < 0 {
		return domain.Appliance{}, ErrNotFound
	}
	in.ID = id
	if err := domain.Validate(in); err != nil {
		return domain.Appliance{}, err
	}
	s.appliances[i] = in
	return in, nil
}

func (s *Store) Recommendations() ([]domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("recommendations.list"); err != nil {
		return nil, err
	}
	return append([]domain.Recommendation(nil), s.recommendations...), nil
}

func (s *Store) SetImplemented(id string, implemented bool) (domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("recommendations.status"); err != nil {
		return domain.Recommendation{}, err
	}
	for i := range s.recommendations {
		if s.recommendations[i].ID == id {
			s.recommendations[i].Implemented = implemented
			return s.recommendations[i], nil
		}
	}
	return domain.Recommendation{}, ErrNotFound
}

// GenerateRecommendations adds one appliance tip per running appliance above 1 kW that has
// none yet, a behavior tip when the running loads show spikes, and a scheduling tip when
// nothing else applies. Returns the new entries.
func (s *Store) GenerateRecommendations() ([]domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("recommendations.generate"); err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(s.recommendations))
	for _, r := range s.recommendations {
		existing[r.Title] = true
	}

	var added []domain.Recommendation
	for _, a := range s.appliances {
		if a.Status != domain.StatusOn || a.PowerRating < 1000 {
			continue
		}
		title := "Reduce usage of " + a.Name
		if existing[title] {
			continue
		}
		added = append(added, domain.Recommendation{
			ID:               uuid.NewString(),
			Title:            title,
			Description:      fmt.Sprintf("%s draws %.0f W while running.", a.Name, a.PowerRating),
			PotentialSavings: math.Round(a.PowerRating/200) + 1,
			Category:         domain.CategoryAppliance,
			Priority:         domain.PriorityHigh,
		})
	}
	var draws []float64
	for _, a := range s.appliances {
		if a.Status == domain.StatusOn {
			draws = append(draws, a.PowerRating)
		}
	}
	const staggerTitle = "Stagger high-draw appliances"
	if n := spikes(draws); n > 0 && !existing[staggerTitle] {
		added = append(added, domain.Recommendation{
			ID:               uuid.NewString(),
			Title:            staggerTitle,
			Description:      fmt.Sprintf("%d running appliances draw far more than the rest; avoid running them together.", n),
			PotentialSavings: 6,
			Category:         domain.CategoryBehavior,
			Priority:         domain.PriorityMedium,
		})
	}
	if len(added) == 0 {
		added = append(added, domain.Recommendation{
			ID:               uuid.NewString(),
			Title:            fmt.Sprintf("Review your schedule (%s)", s.now().Format("2006-01-02")),
			Description:      "Move flexible loads to off-peak hours.",
			PotentialSavings: 3,
			Category:         domain.CategoryScheduling,
			Priority:         domain.PriorityMedium,
		})
	}
	s.recommendations = append(s.recommendations, added...)
	return added, nil
}

func (s *Store) Settings() (domain.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("settings.get"); err != nil {
		return domain.UserSettings{}, err
	}
	return s.settings.Clone(), nil
}

func (s *Store) UpdateSettings(in domain.UserSettings) (domain.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("settings.update"); err != nil {
		return domain.UserSettings{}, err
	}
	if err := domain.Validate(in); err != nil {
		return domain.UserSettings{}, err
	}
	in.ID = s.settings.ID
	for i := range in.AutomationRules {
		if in.AutomationRules[i].ID == "" {
			in.AutomationRules[i].ID = uuid.NewString()
		}
	}
	s.settings = in.Clone()
	return s.settings.Clone(), nil
}

func (s *Store) AddRule(rule domain.AutomationRule) (domain.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("settings.rule"); err != nil {
		return domain.UserSettings{}, err
	}
	if err := domain.Validate(rule); err != nil {
		return domain.UserSettings{}, err
	}
	rule.ID = uuid.NewString()
	s.settings.AutomationRules = append(s.settings.AutomationRules, rule)
	return s.settings.Clone(), nil
}

func (s *Store) UpdateRule(id string, rule domain.AutomationRule) (domain.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("settings.rule"); err != nil {
		return domain.UserSettings{}, err
	}
	for i := range s.settings.AutomationRules {
		if s.settings.AutomationRules[i].ID == id {
			rule.ID = id
			s.settings.AutomationRules[i] = rule
			return s.settings.Clone(), nil
		}
	}
	return domain.UserSettings{}, ErrNotFound
}

func (s *Store) DeleteRule(id string) (domain.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("settings.rule"); err != nil {
		return domain.UserSettings{}, err
	}
	rules := s.settings.AutomationRules
	for i := range rules {
		if rules[i].ID == id {
			s.settings.AutomationRules = append(rules[:i:i], rules[i+1:]...)
			return s.settings.Clone(), nil
		}
	}
	return domain.UserSettings{}, ErrNotFound
}
