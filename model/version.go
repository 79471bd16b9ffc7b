package model

import (
	"fmt"
	"strconv"
	"strings"
)

// UnityVersion is the major.minor part of a Unity editor version such as
// "2021.3.30f1".
type UnityVersion struct {
	Major int
	Minor int
}

// ParseUnityVersion extracts the leading major.minor components of s.
// Whatever follows the minor component is ignored, so "2022.1.x" and
// "2022.1.0f1 (abc123)" both parse as 2022.1.
func ParseUnityVersion(s string) (UnityVersion, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 3)
	if len(parts) < 2 {
		return UnityVersion{}, fmt.Errorf("unity version %q has no minor component", s)
	}

	major, err := versionPart(parts[0])
	if err != nil {
		return UnityVersion{}, fmt.Errorf("malformed unity version %q: %w", s, err)
	}
	minor, err := versionPart(parts[1])
	if err != nil {
		return UnityVersion{}, fmt.Errorf("malformed unity version %q: %w", s, err)
	}

	return UnityVersion{Major: major, Minor: minor}, nil
}

// versionPart accepts only plain decimal digits.
func versionPart(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("component %q is not numeric", s)
	}

	return strconv.Atoi(s)
}

// AtLeast reports whether v >= other.
func (v UnityVersion) AtLeast(other UnityVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}

	return v.Minor >= other.Minor
}

// String returns the version in major.minor form.
func (v UnityVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
