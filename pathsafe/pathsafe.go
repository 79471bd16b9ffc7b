// Package pathsafe builds file paths for downloaded artifacts that cannot
// escape their destination directory.
package pathsafe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adamwoolhether/assetstore/errs"
)

// DefaultName replaces a filename that sanitizes to nothing.
const DefaultName = "download"

const maxNameLen = 255

// SanitizeFilename reduces name to a single safe path element. Characters
// outside [A-Za-z0-9._-] become '_', and no ".." sequence survives.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", "_")
	}
	if len(out) > maxNameLen {
		out = out[:maxNameLen]
	}
	if out == "" || out == "." {
		return DefaultName
	}

	return out
}

// SafeDownloadPath joins the sanitized filename to baseDir and returns the
// resolved absolute path. It fails with [errs.ErrPathTraversal] when the raw
// filename is absolute or contains "..", or when the path escapes baseDir
// once symbolic links are resolved.
func SafeDownloadPath(baseDir, filename string) (string, error) {
	if strings.Contains(filename, "..") || isAbs(filename) {
		return "", traversal(filename)
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	resolvedBase, err := resolveExisting(base)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	target, err := resolveExisting(filepath.Join(base, SanitizeFilename(filename)))
	if err != nil {
		return "", fmt.Errorf("resolving target: %w", err)
	}

	rel, err := filepath.Rel(resolvedBase, target)
	if err != nil || !isDescendant(rel) {
		return "", traversal(filename)
	}

	return target, nil
}

func traversal(filename string) error {
	return errs.New(errs.ErrPathTraversal, fmt.Sprintf("%q resolves outside base directory", filename))
}

func isAbs(name string) bool {
	return filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`)
}

func isDescendant(rel string) bool {
	if rel == "." || filepath.IsAbs(rel) {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveExisting evaluates symlinks on the deepest existing ancestor of p
// and re-appends the components that do not exist yet.
func resolveExisting(p string) (string, error) {
	p = filepath.Clean(p)

	var missing []string
	cur := p
	for {
		_, err := os.Lstat(cur)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		missing = append(missing, filepath.Base(cur))
		cur = parent
	}

	resolved, err := filepath.EvalSymlinks(cur)
	if err != nil {
		return "", err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, missing[i])
	}

	return resolved, nil
}
