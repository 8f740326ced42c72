package viewstate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

var ErrSaveInProgress = errors.New("settings save already in progress")

// Settings holds the server copy of the user settings and a draft the user edits. Edits touch
// the draft only; Save sends the whole draft in one request.
type Settings struct {
	*screen

	source SettingsSource

	saved    *domain.UserSettings
	draft    domain.UserSettings
	revision uint64
	saving   bool
}

type SettingsState struct {
	Phase   Phase                `json:"phase"`
	Notices NoticeState          `json:"notices"`
	Saved   *domain.UserSettings `json:"saved"`
	Draft   *domain.UserSettings `json:"draft"`
	Dirty   bool                 `json:"dirty"`
	Saving  bool                 `json:"saving"`
}

func NewSettings(src SettingsSource, opts Options) *Settings {
	s := &Settings{
		screen: newScreen("settings", MsgSettingsLoadFailed, opts),
		source: src,
	}
	s.register(source{
		key: keySettings,
		prepare: func() fetchFunc {
			return func(ctx context.Context) (func(), error) {
				got, err := s.source.Get(ctx)
				if err != nil {
					return nil, err
				}
				return func() { s.replaceLocked(got) }, nil
			}
		},
		reset: func() {
			s.saved = nil
			s.draft = domain.UserSettings{}
			s.revision++
		},
	})
	return s
}

func (s *Settings) Activate(ctx context.Context) { s.activate(ctx, keySettings) }

// replaceLocked installs a server copy and discards the draft.
func (s *Settings) replaceLocked(got domain.UserSettings) {
	s.saved = &got
	s.draft = got.Clone()
	s.revision++
}

// Edit applies fn to the draft. It fails with ErrNotLoaded before the settings are loaded.
func (s *Settings) Edit(fn func(draft *domain.UserSettings) error) error {
	s.mu.Lock()
	if s.saved == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	next := s.draft.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.draft = next
	s.revision++
	s.mu.Unlock()
	s.changed()
	return nil
}

func (s *Settings) SetEnergyPrice(perKWh float64) error {
	if perKWh < 0 {
		return fmt.Errorf("%w: energy price %v", domain.ErrInvalid, perKWh)
	}
	return s.Edit(func(d *domain.UserSettings) error {
		d.EnergyPricePerKWh = perKWh
		return nil
	})
}

func (s *Settings) SetEmailEnabled(on bool) error {
	return s.Edit(func(d *domain.UserSettings) error {
		d.NotificationPreferences.Email.Enabled = on
		return nil
	})
}

func (s *Settings) SetEmailAddress(addr string) error {
	return s.Edit(func(d *domain.UserSettings) error {
		d.NotificationPreferences.Email.Address = addr
		return nil
	})
}

func (s *Settings) SetPushEnabled(on bool) error {
	return s.Edit(func(d *domain.UserSettings) error {
		d.NotificationPreferences.Push.Enabled = on
		return nil
	})
}

func (s *Settings) SetNotifyOnHighConsumption(on bool) error {
	return s.Edit(func(d *domain.UserSettings) error {
		d.NotificationPreferences.NotifyOnHighConsumption = on
		return nil
	})
}

func (s *Settings) SetNotifyOnRecommendations(on bool) error {
	return s.Edit(func(d *domain.UserSettings) error {
		d.NotificationPreferences.NotifyOnRecommendations = on
		return nil
	})
}

func (s *Settings) SetWidgetVisible(w domain.Widget, visible bool) error {
	return s.Edit(func(d *domain.UserSettings) error {
		return d.DashboardLayout.Set(w, visible)
	})
}

// ToggleRule flips the active flag of the rule at index in the draft.
func (s *Settings) ToggleRule(index int) error {
	return s.Edit(func(d *domain.UserSettings) error {
		if index < 0 || index >= len(d.AutomationRules) {
			return fmt.Errorf("%w: rule index %d out of range", domain.ErrInvalid, index)
		}
		d.AutomationRules[index].Active = !d.AutomationRules[index].Active
		return nil
	})
}

// Dirty reports whether the draft differs from the server copy.
func (s *Settings) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

func (s *Settings) dirtyLocked() bool {
	return s.saved != nil && !reflect.DeepEqual(*s.saved, s.draft)
}

// Discard drops the draft edits.
func (s *Settings) Discard() {
	s.mu.Lock()
	if s.saved == nil || !s.dirtyLocked() {
		s.mu.Unlock()
		return
	}
	s.draft = s.saved.Clone()
	s.revision++
	s.mu.Unlock()
	s.changed()
}

// Save sends the draft. The server response becomes the new server copy; it also replaces
// the draft unless the draft was edited while the request was in flight.
func (s *Settings) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saved == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.saving = true
	draft := s.draft.Clone()
	rev := s.revision
	s.mu.Unlock()
	s.changed()

	err := s.mutate(ctx, keySettings, MsgSaveFailed, func(ctx context.Context) (func(), error) {
		got, err := s.save(ctx, draft)
		if err != nil {
			s.mu.Lock()
			s.saving = false
			s.mu.Unlock()
			return nil, err
		}
		return func() {
			s.saving = false
			if s.revision == rev {
				s.replaceLocked(got)
				return
			}
			s.saved = &got
		}, nil
	})
	if err != nil {
		return err
	}
	s.notices.Dismiss(ChannelError)
	s.notices.Success(MsgSettingsSaved)
	return nil
}

func (s *Settings) save(ctx context.Context, draft domain.UserSettings) (domain.UserSettings, error) {
	if err := domain.Validate(draft); err != nil {
		return domain.UserSettings{}, err
	}
	return s.source.Update(ctx, draft)
}

func (s *Settings) AddRule(ctx context.Context, rule domain.AutomationRule) error {
	return s.ruleOp(ctx, "", func(ctx context.Context) (domain.UserSettings, error) {
		if err := domain.Validate(rule); err != nil {
			return domain.UserSettings{}, err
		}
		return s.source.AddRule(ctx, rule)
	})
}

func (s *Settings) UpdateRule(ctx context.Context, id string, rule domain.AutomationRule) error {
	return s.ruleOp(ctx, id, func(ctx context.Context) (domain.UserSettings, error) {
		if err := domain.Validate(rule); err != nil {
			return domain.UserSettings{}, err
		}
		return s.source.UpdateRule(ctx, id, rule)
	})
}

func (s *Settings) DeleteRule(ctx context.Context, id string) error {
	return s.ruleOp(ctx, id, func(ctx context.Context) (domain.UserSettings, error) {
		return s.source.DeleteRule(ctx, id)
	})
}

// ruleOp applies a rule change the server answers with the full settings. The returned rules
// replace the draft's rules; other draft edits are kept, and so are unsaved active flags of
// rules other than target.
func (s *Settings) ruleOp(ctx context.Context, target string, call func(ctx context.Context) (domain.UserSettings, error)) error {
	s.mu.Lock()
	loaded := s.saved != nil
	s.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}
	return s.mutate(ctx, keySettings, MsgRulesFailed, func(ctx context.Context) (func(), error) {
		got, err := call(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			if !s.dirtyLocked() {
				s.replaceLocked(got)
				return
			}
			toggled := pendingToggles(s.saved.AutomationRules, s.draft.AutomationRules)
			s.saved = &got
			s.draft.AutomationRules = slices.Clone(got.AutomationRules)
			for i, r := range s.draft.AutomationRules {
				if active, ok := toggled[r.ID]; ok && r.ID != target {
					s.draft.AutomationRules[i].Active = active
				}
			}
			s.revision++
		}, nil
	})
}

// pendingToggles maps the id of every draft rule whose active flag differs from the saved
// rule with the same id to the draft's flag.
func pendingToggles(saved, draft []domain.AutomationRule) map[string]bool {
	before := make(map[string]bool, len(saved))
	for _, r := range saved {
		before[r.ID] = r.Active
	}
	out := make(map[string]bool)
	for _, r := range draft {
		if active, ok := before[r.ID]; ok && active != r.Active {
			out[r.ID] = r.Active
		}
	}
	return out
}

func (s *Settings) Snapshot() SettingsState {
	s.mu.Lock()
	st := SettingsState{
		Phase:  s.phaseLocked(),
		Dirty:  s.dirtyLocked(),
		Saving: s.saving,
	}
	if s.saved != nil {
		saved := s.saved.Clone()
		draft := s.draft.Clone()
		st.Saved, st.Draft = &saved, &draft
	}
	s.mu.Unlock()
	st.Notices = s.notices.State()
	return st
}
