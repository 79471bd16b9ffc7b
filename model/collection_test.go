package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamwoolhether/assetstore/model"
)

func sampleCollection() model.Collection {
	return model.NewCollection([]model.Asset{
		{UID: "a", Title: "Zeta Shaders", Category: "VFX", Publisher: "Acme", Price: decimal.NewFromInt(5), MinUnityVersion: "2021.3.0f1"},
		{UID: "b", Title: "Alpha Tools", Category: "Tools", Publisher: "acme", Price: decimal.NewFromInt(1), MinUnityVersion: "2022.1.0f1"},
		{UID: "c", Title: "Mid Pack", Category: "vfx", Publisher: "Other", Price: decimal.NewFromInt(5)},
	}, 10)
}

func TestNewCollection_CopiesInput(t *testing.T) {
	in := []model.Asset{{UID: "a"}, {UID: "b"}}
	c := model.NewCollection(in, 0)

	in[0].UID = "mutated"
	assert.Equal(t, []string{"a", "b"}, c.UIDs())
	assert.Equal(t, 2, c.Total(), "total is raised to the item count")

	out := c.Assets()
	out[1].UID = "mutated"
	assert.Equal(t, []string{"a", "b"}, c.UIDs())
}

func TestCollection_Filters(t *testing.T) {
	c := sampleCollection()

	tests := []struct {
		name     string
		got      model.Collection
		expected []string
	}{
		{name: "category ignores case", got: c.FilterByCategory("VFX"), expected: []string{"a", "c"}},
		{name: "publisher ignores case", got: c.FilterByPublisher("ACME"), expected: []string{"a", "b"}},
		{name: "no match", got: c.FilterByCategory("Audio"), expected: []string{}},
		{name: "unity version", got: c.FilterByUnityVersion("2021.3.30f1"), expected: []string{"a", "c"}},
		{name: "predicate", got: c.Filter(func(a model.Asset) bool { return a.Price.IsPositive() && a.Title > "B" }), expected: []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got.UIDs())
			assert.Equal(t, len(tt.expected), tt.got.Total())
		})
	}

	assert.Equal(t, []string{"a", "b", "c"}, c.UIDs(), "source collection unchanged")
}

func TestCollection_SortByPrice_Stable(t *testing.T) {
	c := sampleCollection()

	desc := c.SortByPrice(true)
	assert.Equal(t, []string{"a", "c", "b"}, desc.UIDs())

	asc := c.SortByPrice(false)
	assert.Equal(t, []string{"b", "a", "c"}, asc.UIDs())

	assert.Equal(t, 10, desc.Total())
	assert.Equal(t, []string{"a", "b", "c"}, c.UIDs())
}

func TestCollection_SortByTitle(t *testing.T) {
	c := sampleCollection()

	assert.Equal(t, []string{"b", "c", "a"}, c.SortByTitle(false).UIDs())
	assert.Equal(t, []string{"a", "c", "b"}, c.SortByTitle(true).UIDs())
}

func TestCollection_GetAssetByID(t *testing.T) {
	c := model.NewCollection([]model.Asset{{UID: "x", Title: "first"}, {UID: "x", Title: "second"}}, 2)

	a, ok := c.GetAssetByID("x")
	require.True(t, ok)
	assert.Equal(t, "first", a.Title)

	_, ok = c.GetAssetByID("missing")
	assert.False(t, ok)
}

func TestCollection_All(t *testing.T) {
	c := sampleCollection()

	var seen []string
	for i, a := range c.All() {
		if i == 2 {
			break
		}
		seen = append(seen, a.UID)
	}

	assert.Equal(t, []string{"a", "b"}, seen)
}
