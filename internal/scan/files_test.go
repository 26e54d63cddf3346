package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImage(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"image.PNG", true},
		{"image.jpg", true},
		{"image.jpeg", true},
		{"image.gif", true},
		{"image.bmp", true},
		{"image.xpm", true},
		{"image.WebP", true},
		{"image.txt", false},
		{"image", false},
		{"archive.png.zip", false},
		{".jpeg", true}, // Test with only extension
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IsImage(test.name), "IsImage(%s)", test.name)
	}
}

func TestSupportedExtensionsSorted(t *testing.T) {
	exts := SupportedExtensions()
	assert.Len(t, exts, len(supportedExtensions))
	assert.IsIncreasing(t, exts)
	assert.Contains(t, exts, ".png")
}

func TestTargets(t *testing.T) {
	assert.Equal(t, Target{Kind: TargetDir, Paths: []string{"/photos"}}, DirTarget("/photos"))
	assert.Equal(t, Target{Kind: TargetFile, Paths: []string{"/a.png"}}, FileTarget("/a.png"))

	paths := []string{"/a", "/b.png"}
	list := ListTarget(paths...)
	paths[0] = "/changed"
	assert.Equal(t, []string{"/a", "/b.png"}, list.Paths, "ListTarget must copy its input")
	assert.Equal(t, "list", list.Kind.String())
}
