package model

import (
	"iter"
	"slices"
	"strings"
)

// Collection is an ordered, read-only sequence of assets.
type Collection struct {
	assets []Asset
	total  int
}

// NewCollection builds a Collection from a copy of assets. total is the
// number of items the marketplace reported; values smaller than len(assets)
// are raised to it.
func NewCollection(assets []Asset, total int) Collection {
	c := Collection{assets: slices.Clone(assets), total: total}
	if c.total < len(c.assets) {
		c.total = len(c.assets)
	}

	return c
}

// Len returns the number of assets held.
func (c Collection) Len() int {
	return len(c.assets)
}

// Total returns the server-reported item count, which may exceed Len when
// the collection was fetched a page at a time.
func (c Collection) Total() int {
	return c.total
}

// Assets returns a copy of the held assets.
func (c Collection) Assets() []Asset {
	return slices.Clone(c.assets)
}

// All iterates the assets in order.
func (c Collection) All() iter.Seq2[int, Asset] {
	return func(yield func(int, Asset) bool) {
		for i, a := range c.assets {
			if !yield(i, a) {
				return
			}
		}
	}
}

// UIDs returns the asset identifiers in order.
func (c Collection) UIDs() []string {
	uids := make([]string, len(c.assets))
	for i, a := range c.assets {
		uids[i] = a.UID
	}

	return uids
}

// GetAssetByID returns the first asset whose UID matches.
func (c Collection) GetAssetByID(uid string) (Asset, bool) {
	for _, a := range c.assets {
		if a.UID == uid {
			return a, true
		}
	}

	return Asset{}, false
}

// Filter returns the assets for which keep reports true, preserving order.
func (c Collection) Filter(keep func(Asset) bool) Collection {
	var out []Asset
	for _, a := range c.assets {
		if keep(a) {
			out = append(out, a)
		}
	}

	return Collection{assets: out, total: len(out)}
}

// FilterByCategory keeps the assets whose category matches name, ignoring case.
func (c Collection) FilterByCategory(name string) Collection {
	return c.Filter(func(a Asset) bool {
		return strings.EqualFold(a.Category, name)
	})
}

// FilterByPublisher keeps the assets whose publisher matches name, ignoring case.
func (c Collection) FilterByPublisher(name string) Collection {
	return c.Filter(func(a Asset) bool {
		return strings.EqualFold(a.Publisher, name)
	})
}

// FilterByUnityVersion keeps the assets compatible with the target version.
func (c Collection) FilterByUnityVersion(target string) Collection {
	return c.Filter(func(a Asset) bool {
		return a.IsCompatibleWith(target)
	})
}

// SortByPrice returns the assets ordered by price. Equal prices keep their
// original relative order in both directions.
func (c Collection) SortByPrice(reverse bool) Collection {
	return c.sorted(func(a, b Asset) int {
		return a.Price.Cmp(b.Price)
	}, reverse)
}

// SortByTitle returns the assets ordered by title. Equal titles keep their
// original relative order in both directions.
func (c Collection) SortByTitle(reverse bool) Collection {
	return c.sorted(func(a, b Asset) int {
		return strings.Compare(a.Title, b.Title)
	}, reverse)
}

func (c Collection) sorted(cmp func(a, b Asset) int, reverse bool) Collection {
	out := slices.Clone(c.assets)
	if reverse {
		slices.SortStableFunc(out, func(a, b Asset) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}

	return Collection{assets: out, total: c.total}
}
