package viewstate

import (
	"context"
	"fmt"
	"slices"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

type Recommendations struct {
	*screen

	source     RecommendationSource
	category   domain.RecommendationCategory
	generating bool
	items      Collection[domain.Recommendation]
}

type RecommendationsState struct {
	Phase      Phase                         `json:"phase"`
	Notices    NoticeState                   `json:"notices"`
	Category   domain.RecommendationCategory `json:"category,omitempty"`
	Generating bool                          `json:"generating"`
	All        []domain.Recommendation       `json:"all"`
	Visible    []domain.Recommendation       `json:"visible"`
}

func NewRecommendations(src RecommendationSource, opts Options) *Recommendations {
	r := &Recommendations{
		screen: newScreen("recommendations", MsgRecommendationsLoadFailed, opts),
		source: src,
	}
	r.register(source{
		key: keyRecommendations,
		prepare: func() fetchFunc {
			return func(ctx context.Context) (func(), error) {
				items, err := r.source.List(ctx)
				if err != nil {
					return nil, err
				}
				return func() { r.items = NewCollection(items) }, nil
			}
		},
		reset: func() { r.items = Collection[domain.Recommendation]{} },
	})
	return r
}

func (r *Recommendations) Activate(ctx context.Context) { r.activate(ctx, keyRecommendations) }

// SetCategory filters by exact category; the empty category shows all.
func (r *Recommendations) SetCategory(c domain.RecommendationCategory) error {
	if c != "" && !slices.Contains(domain.RecommendationCategories, c) {
		return fmt.Errorf("%w: recommendation category %q", domain.ErrInvalid, c)
	}
	r.mu.Lock()
	changed := r.category != c
	r.category = c
	r.mu.Unlock()
	if changed {
		r.changed()
	}
	return nil
}

func (r *Recommendations) Visible() []domain.Recommendation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return FilterRecommendations(r.items.Items(), r.category)
}

func (r *Recommendations) MarkImplemented(ctx context.Context, id string, implemented bool) error {
	return r.mutate(ctx, keyRecommendations, MsgStatusFailed, func(ctx context.Context) (func(), error) {
		got, err := r.source.UpdateStatus(ctx, id, implemented)
		if err != nil {
			return nil, err
		}
		return func() { r.items, _ = r.items.Replace(id, got) }, nil
	})
}

// Generate asks the server for new recommendations and then reloads the whole list, since
// the server decides how many it creates. On failure the list is left as it was.
func (r *Recommendations) Generate(ctx context.Context) error {
	r.mu.Lock()
	r.generating = true
	r.mu.Unlock()
	r.changed()

	err := r.source.Generate(ctx)

	r.mu.Lock()
	r.generating = false
	r.mu.Unlock()
	if err != nil {
		r.log.Warn().Err(err).Msg("generate failed")
		r.notices.Error(MsgGenerateFailed)
		return err
	}
	r.load(keyRecommendations)
	return nil
}

func (r *Recommendations) Snapshot() RecommendationsState {
	r.mu.Lock()
	all := r.items.Items()
	st := RecommendationsState{
		Phase:      r.phaseLocked(),
		Category:   r.category,
		Generating: r.generating,
		All:        all,
		Visible:    FilterRecommendations(all, r.category),
	}
	r.mu.Unlock()
	st.Notices = r.notices.State()
	return st
}
