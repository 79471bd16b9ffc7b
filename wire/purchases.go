package wire

import (
	"time"

	"github.com/adamwoolhether/assetstore/errs"
	"github.com/adamwoolhether/assetstore/model"
)

// PurchaseItem is one owned item as listed by the purchases endpoint. It
// carries only summary data; the product endpoint has the full details.
type PurchaseItem struct {
	ID               string
	PackageID        string
	DisplayName      string
	GrantTime        time.Time
	IsHidden         bool
	IsPublisherAsset bool
	OrderID          string
	Tagging          []string
}

// CategoryCount is an aggregate count of owned items per category.
type CategoryCount struct {
	Name  string
	Count int
}

// Purchases is the response model of the purchases endpoint.
type Purchases struct {
	Results          []PurchaseItem
	Total            int
	Categories       []CategoryCount
	PublisherSuggest []string
}

// PurchasesFromRaw reads a purchases payload.
func PurchasesFromRaw(raw Raw) (Purchases, error) {
	if len(raw) == 0 {
		return Purchases{}, errs.New(errs.ErrParse, "empty purchases payload")
	}

	p := Purchases{
		Total:            int(raw.Int("total")),
		PublisherSuggest: raw.Strings("publisherSuggest"),
	}

	for _, item := range raw.Objects("results") {
		p.Results = append(p.Results, PurchaseItem{
			ID:               item.String("id"),
			PackageID:        item.String("packageId"),
			DisplayName:      item.String("displayName"),
			GrantTime:        parseTime(item.String("grantTime")),
			IsHidden:         item.Bool("isHidden"),
			IsPublisherAsset: item.Bool("isPublisherAsset"),
			OrderID:          item.String("orderId"),
			Tagging:          item.Strings("tagging"),
		})
	}

	for _, cat := range raw.Objects("category") {
		p.Categories = append(p.Categories, CategoryCount{
			Name:  cat.String("name"),
			Count: int(cat.Int("count")),
		})
	}

	return p, nil
}

// ToCollection maps every purchased item to a summary Asset. Items
// without a package id cannot be addressed and are left out.
func (p Purchases) ToCollection() model.Collection {
	assets := make([]model.Asset, 0, len(p.Results))
	for _, item := range p.Results {
		if item.PackageID == "" {
			continue
		}
		assets = append(assets, model.Asset{
			UID:       item.PackageID,
			Title:     item.DisplayName,
			GrantedAt: item.GrantTime,
		})
	}

	return model.NewCollection(assets, p.Total)
}

// PackageIDs returns the package identifiers of the purchased items,
// leaving out hidden items unless includeHidden is set. Items without a
// package id are always left out.
func (p Purchases) PackageIDs(includeHidden bool) []string {
	ids := make([]string, 0, len(p.Results))
	for _, item := range p.Results {
		if item.PackageID == "" || (item.IsHidden && !includeHidden) {
			continue
		}
		ids = append(ids, item.PackageID)
	}

	return ids
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}

	return t.UTC()
}
