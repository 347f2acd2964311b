package watch

import "path/filepath"

// Filter selects the file names that count as data changes.
type Filter struct {
	Include []string
	Exclude []string
}

// DataFiles matches collection files and skips temp files left by atomic
// writes.
var DataFiles = Filter{
	Include: []string{"*.yaml"},
	Exclude: []string{"*.tmp", ".*"},
}

// Matches reports whether the base name of path passes the filter.
func (f Filter) Matches(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range f.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
