package wire

import (
	"cmp"
	"slices"

	"github.com/hashicorp/go-version"
	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/assetstore/errs"
	"github.com/adamwoolhether/assetstore/model"
)

// Upload is one per-Unity-version package upload of a product.
type Upload struct {
	UnityVersion string
	DownloadKey  string
	SizeBytes    int64
	FileCount    int
}

// Product is the response model of the product endpoint.
type Product struct {
	ID          string
	PackageID   string
	Name        string
	Slug        string
	Description string
	OriginPrice string
	Category    string
	Publisher   string
	PublisherID string
	Rating      float64

	// Uploads is ordered by ascending Unity version.
	Uploads []Upload
}

// ProductFromRaw reads a product payload.
func ProductFromRaw(raw Raw) (Product, error) {
	if len(raw) == 0 {
		return Product{}, errs.New(errs.ErrParse, "empty product payload")
	}

	p := Product{
		ID:          raw.String("id"),
		PackageID:   raw.String("packageId"),
		Name:        raw.String("name"),
		Slug:        raw.String("slug"),
		Description: raw.String("description"),
		OriginPrice: raw.String("originPrice"),
		Category:    raw.Object("category").String("name"),
		Publisher:   raw.Object("productPublisher").String("name"),
		PublisherID: raw.Object("productPublisher").String("id"),
		Rating:      raw.Object("rating").Float("average"),
	}

	uploads := raw.Object("uploads")
	for key := range uploads {
		info := uploads.Object(key)
		p.Uploads = append(p.Uploads, Upload{
			UnityVersion: key,
			DownloadKey:  info.String("downloadS3key"),
			SizeBytes:    info.Int("downloadSize"),
			FileCount:    int(info.Int("assetCount")),
		})
	}
	slices.SortFunc(p.Uploads, func(a, b Upload) int {
		return compareVersions(a.UnityVersion, b.UnityVersion)
	})

	return p, nil
}

// ToDomain maps the product to an Asset using its lowest-version upload.
func (p Product) ToDomain() model.Asset {
	a := model.Asset{
		UID:         p.PackageID,
		Title:       p.Name,
		Description: p.Description,
		Publisher:   p.Publisher,
		PublisherID: p.PublisherID,
		Category:    p.Category,
		Price:       parsePrice(p.OriginPrice),
		Rating:      p.Rating,
	}

	if len(p.Uploads) > 0 {
		up := p.Uploads[0]
		a.MinUnityVersion = up.UnityVersion
		a.DownloadKey = up.DownloadKey
		a.SizeBytes = up.SizeBytes
		a.FileCount = up.FileCount
	}

	return a
}

func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// compareVersions orders parseable versions ascending, followed by
// unparseable keys in lexical order.
func compareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)

	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
