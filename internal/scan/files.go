// Package scan operates on files in a directory and its subdirectories
package scan

import (
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions holds the lower-cased extensions of the image formats
// the viewer can display.
var supportedExtensions = map[string]bool{
	".bmp":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pbm":  true,
	".pgm":  true,
	".ppm":  true,
	".xbm":  true,
	".xpm":  true,
	".webp": true,
}

// IsImage checks if a file is an image
func IsImage(n string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(n))]
}

// SupportedExtensions returns the supported extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// TargetKind tells the loader how to interpret the paths of a Target.
type TargetKind int

const (
	// TargetDir scans a single directory.
	TargetDir TargetKind = iota
	// TargetFile loads a single file.
	TargetFile
	// TargetList loads each path in turn, scanning the ones that are directories.
	TargetList
)

func (k TargetKind) String() string {
	switch k {
	case TargetDir:
		return "directory"
	case TargetFile:
		return "file"
	case TargetList:
		return "list"
	default:
		return "unknown"
	}
}

// Target is what a loader scans.
type Target struct {
	Kind  TargetKind
	Paths []string
}

// DirTarget targets a single directory.
func DirTarget(dir string) Target {
	return Target{Kind: TargetDir, Paths: []string{dir}}
}

// FileTarget targets a single file.
func FileTarget(path string) Target {
	return Target{Kind: TargetFile, Paths: []string{path}}
}

// ListTarget targets a mix of files and directories.
func ListTarget(paths ...string) Target {
	p := make([]string, len(paths))
	copy(p, paths)
	return Target{Kind: TargetList, Paths: p}
}
