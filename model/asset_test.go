package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamwoolhether/assetstore/model"
	"github.com/adamwoolhether/assetstore/validate"
)

func TestAsset_IsCompatibleWith(t *testing.T) {
	tests := []struct {
		name       string
		minVersion string
		target     string
		expected   bool
	}{
		{name: "same minor newer patch", minVersion: "2021.3.0f1", target: "2021.3.30f1", expected: true},
		{name: "newer minimum rejects older target", minVersion: "2022.1.0f1", target: "2021.3.30f1", expected: false},
		{name: "newer major", minVersion: "2021.3.0f1", target: "2022.1.5f1", expected: true},
		{name: "older minor same major", minVersion: "2021.3.0f1", target: "2021.2.9f1", expected: false},
		{name: "major minor only", minVersion: "2020.1", target: "2020.1", expected: true},
		{name: "numeric compare not lexical", minVersion: "2021.9.0f1", target: "2021.10.0f1", expected: true},
		{name: "empty minimum is compatible", minVersion: "", target: "2019.4.1f1", expected: true},
		{name: "empty minimum with malformed target", minVersion: "", target: "garbage", expected: true},
		{name: "malformed target", minVersion: "2021.3.0f1", target: "not-a-version", expected: false},
		{name: "empty target", minVersion: "2021.3.0f1", target: "", expected: false},
		{name: "target without minor", minVersion: "2021.3.0f1", target: "2022", expected: false},
		{name: "prefixed target", minVersion: "2021.3.0f1", target: "v2022.1", expected: false},
		{name: "malformed minimum", minVersion: "latest", target: "2021.3.30f1", expected: false},
		{name: "non-numeric patch", minVersion: "2021.3.0f1", target: "2022.1.x", expected: true},
		{name: "custom build suffix", minVersion: "2021.3.0f1", target: "2022.1.0f1_custom", expected: true},
		{name: "build hash suffix", minVersion: "2021.3.0f1", target: "2022.1.0f1 (abc123)", expected: true},
		{name: "extra dotted suffix", minVersion: "2021.3.0f1", target: "2022.1.0f1.beta", expected: true},
		{name: "non-numeric patch minimum", minVersion: "2021.3.x", target: "2022.1.0f1", expected: true},
		{name: "suffix on minor", minVersion: "2021.3.0f1", target: "2022.1b", expected: false},
		{name: "non-numeric major", minVersion: "2021.3.0f1", target: "x.1.0", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := model.Asset{UID: "1", MinUnityVersion: tt.minVersion}
			assert.Equal(t, tt.expected, a.IsCompatibleWith(tt.target))
		})
	}
}

func TestParseUnityVersion(t *testing.T) {
	v, err := model.ParseUnityVersion(" 2021.3.30f1 ")
	require.NoError(t, err)
	assert.Equal(t, model.UnityVersion{Major: 2021, Minor: 3}, v)
	assert.Equal(t, "2021.3", v.String())

	_, err = model.ParseUnityVersion("2021")
	assert.Error(t, err)

	v, err = model.ParseUnityVersion("2022.1.x")
	require.NoError(t, err)
	assert.Equal(t, model.UnityVersion{Major: 2022, Minor: 1}, v)
}

func TestAsset_DownloadSizeMB(t *testing.T) {
	a := model.Asset{UID: "1", SizeBytes: 5 << 20}
	assert.InDelta(t, 5.0, a.DownloadSizeMB(), 1e-9)
	assert.Zero(t, model.Asset{UID: "1"}.DownloadSizeMB())
}

func TestAsset_Validate(t *testing.T) {
	require.NoError(t, model.Asset{UID: "42"}.Validate())

	err := model.Asset{Title: "nameless"}.Validate()
	require.Error(t, err)
	fe := validate.GetFieldErrors(err)
	require.NotNil(t, fe)
	assert.Contains(t, fe.Fields(), "uid")
}
