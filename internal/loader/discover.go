package loader

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// FSDiscoverer implements domain.DocumentDiscoverer over the local
// filesystem via Discover.
type FSDiscoverer struct{}

// NewFSDiscoverer creates a new filesystem-backed discoverer.
func NewFSDiscoverer() FSDiscoverer {
	return FSDiscoverer{}
}

// Discover implements domain.DocumentDiscoverer.
func (FSDiscoverer) Discover(root string, include, exclude []string) ([]string, error) {
	return Discover(root, include, exclude)
}

// Discover walks root collecting paths that match at least one of include
// and none of exclude, both doublestar glob patterns (e.g. "**/*.yaml").
// Grounded on pyscn's module_analyzer.go, which uses doublestar.Match the
// same way to filter module names and file paths against user-supplied
// include/exclude globs; here the matching is driven by doublestar.Glob
// walking root's filesystem directly rather than testing a pre-enumerated
// candidate list.
func Discover(root string, include, exclude []string) ([]string, error) {
	fsys := os.DirFS(root)

	seen := make(map[string]bool)
	var matches []string
	for _, pattern := range include {
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			if seen[m] {
				continue
			}
			seen[m] = true
			matches = append(matches, m)
		}
	}

	var out []string
	for _, m := range matches {
		if matchesAny(exclude, m) {
			continue
		}
		out = append(out, filepath.Join(root, m))
	}
	return out, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}
