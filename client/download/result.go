package download

import "github.com/adamwoolhether/assetstore/model"

// Result describes the outcome of one asset download. Path is set only on
// success and Err only on failure. BytesWritten counts the bytes received
// even when the transfer failed part way.
type Result struct {
	AssetUID     string
	Success      bool
	Path         string
	Err          error
	BytesWritten int64
	Asset        model.Asset
}

// Succeeded returns a successful Result.
func Succeeded(asset model.Asset, path string, n int64) Result {
	return Result{
		AssetUID:     asset.UID,
		Success:      true,
		Path:         path,
		BytesWritten: n,
		Asset:        asset,
	}
}

// Failed returns a failed Result for uid.
func Failed(uid string, asset model.Asset, n int64, err error) Result {
	return Result{
		AssetUID:     uid,
		Err:          err,
		BytesWritten: n,
		Asset:        asset,
	}
}
