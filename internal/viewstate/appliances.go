package viewstate

import (
	"context"
	"fmt"
	"slices"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

// Appliances is the appliance management screen. Search and type filter are local: they
// never trigger a read.
type Appliances struct {
	*screen

	source ApplianceSource
	filter ApplianceFilter
	items  Collection[domain.Appliance]
}

type AppliancesState struct {
	Phase   Phase              `json:"phase"`
	Notices NoticeState        `json:"notices"`
	Filter  ApplianceFilter    `json:"filter"`
	All     []domain.Appliance `json:"all"`
	Visible []domain.Appliance `json:"visible"`
}

func NewAppliances(src ApplianceSource, opts Options) *Appliances {
	a := &Appliances{
		screen: newScreen("appliances", MsgAppliancesLoadFailed, opts),
		source: src,
	}
	a.register(source{
		key: keyAppliances,
		prepare: func() fetchFunc {
			return func(ctx context.Context) (func(), error) {
				items, err := a.source.List(ctx)
				if err != nil {
					return nil, err
				}
				return func() { a.items = NewCollection(items) }, nil
			}
		},
		reset: func() { a.items = Collection[domain.Appliance]{} },
	})
	return a
}

func (a *Appliances) Activate(ctx context.Context) { a.activate(ctx, keyAppliances) }

func (a *Appliances) SetQuery(q string) {
	a.setFilter(func(f *ApplianceFilter) { f.Query = q })
}

// SetTypeFilter narrows the list to one type; the empty type shows all.
func (a *Appliances) SetTypeFilter(t domain.ApplianceType) error {
	if t != "" && !slices.Contains(domain.ApplianceTypes, t) {
		return fmt.Errorf("%w: appliance type %q", domain.ErrInvalid, t)
	}
	a.setFilter(func(f *ApplianceFilter) { f.Type = t })
	return nil
}

func (a *Appliances) setFilter(fn func(f *ApplianceFilter)) {
	a.mu.Lock()
	next := a.filter
	fn(&next)
	changed := next != a.filter
	a.filter = next
	a.mu.Unlock()
	if changed {
		a.changed()
	}
}

// Visible is the list after search and type filter, in fetch order.
func (a *Appliances) Visible() []domain.Appliance {
	a.mu.Lock()
	defer a.mu.Unlock()
	return FilterAppliances(a.items.Items(), a.filter)
}

func (a *Appliances) Toggle(ctx context.Context, id string) error {
	return a.mutate(ctx, keyAppliances, MsgToggleFailed, func(ctx context.Context) (func(), error) {
		got, err := a.source.Toggle(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() { a.items, _ = a.items.Replace(id, got) }, nil
	})
}

// Update sends the full appliance. Invalid input is rejected before any request is made.
func (a *Appliances) Update(ctx context.Context, id string, next domain.Appliance) error {
	return a.mutate(ctx, keyAppliances, MsgUpdateApplianceFailed, func(ctx context.Context) (func(), error) {
		if err := domain.Validate(next); err != nil {
			return nil, err
		}
		got, err := a.source.Update(ctx, id, next)
		if err != nil {
			return nil, err
		}
		return func() { a.items, _ = a.items.Replace(id, got) }, nil
	})
}

// Reload re-reads a single appliance and replaces it in place.
func (a *Appliances) Reload(ctx context.Context, id string) error {
	return a.mutate(ctx, keyAppliances, MsgAppliancesLoadFailed, func(ctx context.Context) (func(), error) {
		got, err := a.source.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() { a.items, _ = a.items.Replace(id, got) }, nil
	})
}

func (a *Appliances) Snapshot() AppliancesState {
	a.mu.Lock()
	all := a.items.Items()
	st := AppliancesState{
		Phase:   a.phaseLocked(),
		Filter:  a.filter,
		All:     all,
		Visible: FilterAppliances(all, a.filter),
	}
	a.mu.Unlock()
	st.Notices = a.notices.State()
	return st
}
