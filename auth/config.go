package auth

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/assetstore/validate"
)

type endpointConfig struct {
	GetAsset       string `yaml:"get_asset" validate:"required,url"`
	ListCollection string `yaml:"list_collection" validate:"required,url"`
	Download       string `yaml:"download" validate:"required,url"`
}

// LoadEndpoints reads endpoint templates from a YAML document of the form:
//
//	get_asset: https://api.example.com/product/{uid}
//	list_collection: https://api.example.com/purchases
//	download: https://cdn.example.com/{key}
func LoadEndpoints(r io.Reader) (Endpoints, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg endpointConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding endpoint config: %w", err)
	}

	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating endpoint config: %w", err)
	}

	return Endpoints{
		OpGetAsset:       cfg.GetAsset,
		OpListCollection: cfg.ListCollection,
		OpDownload:       cfg.Download,
	}, nil
}
