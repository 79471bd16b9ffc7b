package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/assetstore/validate"
)

const bytesPerMB = 1 << 20

// Asset is a single ownable marketplace item.
//
// Optional fields carry their zero value when the marketplace omits them.
type Asset struct {
	UID             string          `json:"uid" validate:"required"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Publisher       string          `json:"publisher"`
	PublisherID     string          `json:"publisher_id"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	Rating          float64         `json:"rating"`
	MinUnityVersion string          `json:"min_unity_version"`
	DownloadKey     string          `json:"download_key"`
	FileCount       int             `json:"file_count"`
	SizeBytes       int64           `json:"size_bytes"`
	GrantedAt       time.Time       `json:"granted_at"`
}

// Validate reports whether the asset satisfies its invariants.
func (a Asset) Validate() error {
	return validate.Check(a)
}

// DownloadSizeMB returns the package size in mebibytes.
func (a Asset) DownloadSizeMB() float64 {
	return float64(a.SizeBytes) / bytesPerMB
}

// IsCompatibleWith reports whether the asset runs on the target Unity
// version. Only the major.minor components are compared. An asset without a
// minimum version is compatible with everything; a malformed version on
// either side is never compatible.
func (a Asset) IsCompatibleWith(target string) bool {
	if a.MinUnityVersion == "" {
		return true
	}

	minVer, err := ParseUnityVersion(a.MinUnityVersion)
	if err != nil {
		return false
	}
	targetVer, err := ParseUnityVersion(target)
	if err != nil {
		return false
	}

	return targetVer.AtLeast(minVer)
}
