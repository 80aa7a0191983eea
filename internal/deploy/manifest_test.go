package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashContent(t *testing.T) {
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", HashContent(""))
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", HashContent("abc"))
}

func TestManifest_Required(t *testing.T) {
	manifest := NewManifest(testBundle())
	jsHash := manifest["script.js"]

	tests := []struct {
		name     string
		required []string
		want     []string
	}{
		{name: "by hash", required: []string{jsHash}, want: []string{"script.js"}},
		{name: "by path", required: []string{"/index.html"}, want: []string{"index.html"}},
		{name: "mixed", required: []string{"styles.css", jsHash}, want: []string{"script.js", "styles.css"}},
		{name: "unknown entries ignored", required: []string{"nope"}, want: nil},
		{name: "none", required: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, manifest.Required(tt.required))
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Jane Doe", want: "jane-doe"},
		{in: "  Jane \t  Doe  ", want: "jane-doe"},
		{in: "already-slugged", want: "already-slugged"},
		{in: "   ", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), tt.in)
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateIdle, StateSiteResolving))
	assert.True(t, CanTransition(StateFilesUploading, StateLive))
	assert.True(t, CanTransition(StateDeployCreated, StateFailed))
	assert.False(t, CanTransition(StateIdle, StateLive))
	assert.False(t, CanTransition(StateLive, StateFailed))
	assert.False(t, CanTransition(StateFailed, StateIdle))
}
