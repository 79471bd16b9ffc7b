package wire_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/assetstore/wire"
)

const purchasesPayload = `{
	"results": [
		{"id": "g1", "packageId": 100, "displayName": "Alpha", "grantTime": "2024-01-02T03:04:05Z", "isHidden": false, "isPublisherAsset": false, "orderId": "o1", "tagging": ["fav"]},
		{"id": "g2", "packageId": 200, "displayName": "Hidden Beta", "grantTime": "not-a-time", "isHidden": true},
		"garbage"
	],
	"total": 57,
	"category": [{"name": "Tools", "count": 2}],
	"publisherSuggest": ["Acme"]
}`

func decodePurchases(t *testing.T) wire.Purchases {
	t.Helper()

	raw, err := wire.Decode(strings.NewReader(purchasesPayload))
	if err != nil {
		t.Fatal(err)
	}
	p, err := wire.PurchasesFromRaw(raw)
	if err != nil {
		t.Fatal(err)
	}

	return p
}

func TestPurchasesFromRaw(t *testing.T) {
	p := decodePurchases(t)

	exp := wire.Purchases{
		Results: []wire.PurchaseItem{
			{
				ID:          "g1",
				PackageID:   "100",
				DisplayName: "Alpha",
				GrantTime:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
				OrderID:     "o1",
				Tagging:     []string{"fav"},
			},
			{
				ID:          "g2",
				PackageID:   "200",
				DisplayName: "Hidden Beta",
				IsHidden:    true,
				Tagging:     []string{},
			},
		},
		Total:            57,
		Categories:       []wire.CategoryCount{{Name: "Tools", Count: 2}},
		PublisherSuggest: []string{"Acme"},
	}

	if diff := cmp.Diff(exp, p); diff != "" {
		t.Errorf("purchases mismatch (-want +got):\n%s", diff)
	}
}

func TestPurchases_ToCollection(t *testing.T) {
	c := decodePurchases(t).ToCollection()

	if diff := cmp.Diff([]string{"100", "200"}, c.UIDs()); diff != "" {
		t.Errorf("uids mismatch (-want +got):\n%s", diff)
	}
	if c.Total() != 57 {
		t.Errorf("Total = %d, want 57", c.Total())
	}

	a, ok := c.GetAssetByID("100")
	if !ok || a.Title != "Alpha" || a.GrantedAt.IsZero() {
		t.Errorf("unexpected asset %+v", a)
	}
}

func TestPurchases_ToCollection_MissingPackageID(t *testing.T) {
	raw, err := wire.Decode(strings.NewReader(`{
		"results": [
			{"id": "g1", "displayName": "NoPkg"},
			{"id": "g2", "packageId": "", "displayName": "EmptyPkg"},
			{"id": "g3", "packageId": 7, "displayName": "Seven"}
		],
		"total": 3
	}`))
	if err != nil {
		t.Fatal(err)
	}
	p, err := wire.PurchasesFromRaw(raw)
	if err != nil {
		t.Fatal(err)
	}

	c := p.ToCollection()
	if diff := cmp.Diff([]string{"7"}, c.UIDs()); diff != "" {
		t.Errorf("uids mismatch (-want +got):\n%s", diff)
	}
	for _, a := range c.All() {
		if err := a.Validate(); err != nil {
			t.Errorf("asset %q fails validation: %v", a.Title, err)
		}
	}
	if diff := cmp.Diff([]string{"7"}, p.PackageIDs(true)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestPurchases_PackageIDs(t *testing.T) {
	p := decodePurchases(t)

	if diff := cmp.Diff([]string{"100"}, p.PackageIDs(false)); diff != "" {
		t.Errorf("visible ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"100", "200"}, p.PackageIDs(true)); diff != "" {
		t.Errorf("all ids mismatch (-want +got):\n%s", diff)
	}
}

func TestPurchasesFromRaw_NoResults(t *testing.T) {
	p, err := wire.PurchasesFromRaw(wire.Raw{"total": "3"})
	if err != nil {
		t.Fatal(err)
	}

	c := p.ToCollection()
	if c.Len() != 0 || c.Total() != 3 {
		t.Errorf("Len = %d, Total = %d", c.Len(), c.Total())
	}
}
