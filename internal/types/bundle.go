package types

import "sort"

// Required bundle entries
const (
	BundleIndex  = "index.html"
	BundleStyles = "styles.css"
	BundleScript = "script.js"
)

// StaticSiteBundle maps a relative file path to its content.
// Produced once by the renderer and consumed once by the deploy client.
type StaticSiteBundle map[string]string

// Paths returns the bundle's file paths in sorted order.
func (b StaticSiteBundle) Paths() []string {
	paths := make([]string, 0, len(b))
	for path := range b {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Complete reports whether the bundle has every required entry.
func (b StaticSiteBundle) Complete() bool {
	for _, path := range []string{BundleIndex, BundleStyles, BundleScript} {
		if _, ok := b[path]; !ok {
			return false
		}
	}
	return true
}
