package viewstate

import (
	"maps"
	"slices"
)

type Keyed interface {
	Key() string
}

// Collection is an ordered id → entity mapping. The zero value is "not loaded", which is
// distinct from a loaded empty collection.
type Collection[T Keyed] struct {
	order []string
	byID  map[string]T
}

// NewCollection keeps fetch order. A repeated id keeps its first position and its last value.
func NewCollection[T Keyed](items []T) Collection[T] {
	c := Collection[T]{
		order: make([]string, 0, len(items)),
		byID:  make(map[string]T, len(items)),
	}
	for _, it := range items {
		k := it.Key()
		if _, dup := c.byID[k]; !dup {
			c.order = append(c.order, k)
		}
		c.byID[k] = it
	}
	return c
}

func (c Collection[T]) Loaded() bool { return c.byID != nil }

func (c Collection[T]) Len() int { return len(c.order) }

func (c Collection[T]) Get(id string) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Items returns the entities in order; nil when the collection was never loaded.
func (c Collection[T]) Items() []T {
	if c.byID == nil {
		return nil
	}
	out := make([]T, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byID[k])
	}
	return out
}

// Replace returns a copy of c where the entity stored under id is swapped for v at the same
// position. It reports false and returns c untouched when id is absent.
func (c Collection[T]) Replace(id string, v T) (Collection[T], bool) {
	if _, ok := c.byID[id]; !ok {
		return c, false
	}
	out := Collection[T]{order: slices.Clone(c.order), byID: maps.Clone(c.byID)}
	nk := v.Key()
	if nk != id {
		if _, clash := out.byID[nk]; clash {
			out.order = slices.Delete(out.order, slices.Index(out.order, nk), slices.Index(out.order, nk)+1)
		}
		out.order[slices.Index(out.order, id)] = nk
		delete(out.byID, id)
	}
	out.byID[nk] = v
	return out, true
}
