package auth

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"strings"
)

// Operation names a logical marketplace operation.
type Operation string

// Supported operations.
const (
	OpGetAsset       Operation = "get_asset"
	OpListCollection Operation = "list_collection"
	OpDownload       Operation = "download"
)

// Template parameters.
const (
	ParamUID = "uid"
	ParamKey = "key"
)

var placeholder = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// ErrNoEndpoint is returned when an operation has no configured template.
var ErrNoEndpoint = errors.New("no endpoint configured")

// Endpoints maps each operation to a URL template. Templates reference
// parameters as {name}: {uid} for get_asset and {key} for download.
type Endpoints map[Operation]string

// Clone returns an independent copy.
func (e Endpoints) Clone() Endpoints {
	return maps.Clone(e)
}

// Resolve substitutes params into the template for op. Values are path
// escaped; the download key keeps its '/' separated structure but may not
// contain dot segments.
func (e Endpoints) Resolve(op Operation, params map[string]string) (*url.URL, error) {
	tmpl, ok := e[op]
	if !ok || tmpl == "" {
		return nil, fmt.Errorf("%w for %q", ErrNoEndpoint, op)
	}

	var resolveErr error
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		val, ok := params[name]
		if !ok {
			if resolveErr == nil {
				resolveErr = fmt.Errorf("missing template parameter %q for %q", name, op)
			}
			return m
		}
		escaped, err := escapeParam(name, val)
		if err != nil && resolveErr == nil {
			resolveErr = err
		}
		return escaped
	})
	if resolveErr != nil {
		return nil, resolveErr
	}

	u, err := url.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("parsing %q endpoint: %w", op, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%q endpoint %q is not an absolute http(s) url", op, tmpl)
	}

	return u, nil
}

func escapeParam(name, val string) (string, error) {
	if val == "" {
		return "", fmt.Errorf("template parameter %q is empty", name)
	}
	if name != ParamKey {
		return url.PathEscape(val), nil
	}

	segs := strings.Split(strings.TrimPrefix(val, "/"), "/")
	for i, s := range segs {
		if s == "." || s == ".." {
			return "", fmt.Errorf("download key %q contains a dot segment", val)
		}
		segs[i] = url.PathEscape(s)
	}

	return strings.Join(segs, "/"), nil
}
