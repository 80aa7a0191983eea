package deploy

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/jonathan/blyn/internal/types"
)

// Manifest maps each bundle path to the hex SHA-1 of its content.
type Manifest map[string]string

// NewManifest hashes every file in the bundle.
func NewManifest(bundle types.StaticSiteBundle) Manifest {
	manifest := make(Manifest, len(bundle))
	for path, content := range bundle {
		manifest[path] = HashContent(content)
	}
	return manifest
}

// HashContent returns the lowercase hex SHA-1 digest of content.
func HashContent(content string) string {
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Required returns the bundle paths named by a deploy's required list, in sorted
// order. Entries may be file paths or content hashes.
func (m Manifest) Required(required []string) []string {
	want := make(map[string]struct{}, len(required))
	for _, entry := range required {
		want[strings.TrimPrefix(entry, "/")] = struct{}{}
	}

	var paths []string
	for _, path := range types.StaticSiteBundle(m).Paths() {
		_, byPath := want[path]
		_, byHash := want[m[path]]
		if byPath || byHash {
			paths = append(paths, path)
		}
	}
	return paths
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug derives a site name: lowercased, with whitespace runs replaced by "-".
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
