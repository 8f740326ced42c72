package service

import (
	"context"
	"net/url"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

// SettingsService covers the settings document and its automation rules. Rule endpoints
// answer with the whole updated settings document.
type SettingsService struct {
	api *api.Client
}

func (s *SettingsService) Get(ctx context.Context) (domain.UserSettings, error) {
	return decode[domain.UserSettings](s.api.Get(ctx, "/settings", nil))
}

func (s *SettingsService) Update(ctx context.Context, settings domain.UserSettings) (domain.UserSettings, error) {
	return decode[domain.UserSettings](s.api.Put(ctx, "/settings", settings))
}

func (s *SettingsService) AddRule(ctx context.Context, rule domain.AutomationRule) (domain.UserSettings, error) {
	return decode[domain.UserSettings](s.api.Post(ctx, "/settings/automation", rule))
}

func (s *SettingsService) UpdateRule(ctx context.Context, id string, rule domain.AutomationRule) (domain.UserSettings, error) {
	return decode[domain.UserSettings](s.api.Put(ctx, "/settings/automation/"+url.PathEscape(id), rule))
}

func (s *SettingsService) DeleteRule(ctx context.Context, id string) (domain.UserSettings, error) {
	return decode[domain.UserSettings](s.api.Delete(ctx, "/settings/automation/"+url.PathEscape(id)))
}
