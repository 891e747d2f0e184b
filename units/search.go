package units

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extensions lists the file extensions FindUnit tries, in preference
// order. ".obc" is this front-end's native module extension; ".Mod" and
// ".mod" accommodate source trees that follow the classic Oberon
// convention.
var extensions = []string{".obc", ".Mod", ".mod"}

// caseVariants returns the distinct casings of name FindUnit is willing to
// try on a case-sensitive file system: the name as given, all-lowercase,
// all-uppercase, and capitalized (first letter upper, rest lower).
func caseVariants(name string) []string {
	seen := make(map[string]bool)
	var variants []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			variants = append(variants, s)
		}
	}
	add(name)
	add(strings.ToLower(name))
	add(strings.ToUpper(name))
	if len(name) > 0 {
		add(strings.ToUpper(name[:1]) + strings.ToLower(name[1:]))
	}
	return variants
}

// FindUnit searches dirs, in order, for a source file matching name under
// any of extensions, returning an absolute path. In each directory the
// casings from caseVariants are tried first, then any file whose name
// equals name plus an extension when compared case-insensitively.
func FindUnit(name string, dirs []string) (string, error) {
	var tried []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		for _, variant := range caseVariants(name) {
			for _, ext := range extensions {
				candidate := filepath.Join(dir, variant+ext)
				tried = append(tried, candidate)
				if fileExists(candidate) {
					abs, err := filepath.Abs(candidate)
					if err != nil {
						return candidate, nil
					}
					return abs, nil
				}
			}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ext := range extensions {
			for _, e := range entries {
				if !e.IsDir() && strings.EqualFold(e.Name(), name+ext) {
					candidate := filepath.Join(dir, e.Name())
					if abs, err := filepath.Abs(candidate); err == nil {
						return abs, nil
					}
					return candidate, nil
				}
			}
		}
	}
	return "", fmt.Errorf("unit %q not found: searched %d location(s): %s", name, len(tried), strings.Join(tried, ", "))
}

// FindUnitInPath is a convenience wrapper for a single search directory.
func FindUnitInPath(name, dir string) (string, error) {
	return FindUnit(name, []string{dir})
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// AddSearchPath appends dir (converted to an absolute path) to paths,
// skipping it if an equivalent absolute path is already present.
func AddSearchPath(paths []string, dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return paths, err
	}
	for _, p := range paths {
		existingAbs, err := filepath.Abs(p)
		if err == nil && existingAbs == abs {
			return paths, nil
		}
	}
	return append(paths, abs), nil
}

// GetDefaultSearchPaths returns the default unit search path list: the
// current directory first, nothing else unless the caller adds more.
func GetDefaultSearchPaths() []string {
	return []string{"."}
}
