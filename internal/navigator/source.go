package navigator

import (
	"fmt"
	"os"

	"poseshow/internal/scan"
)

// SourceKind selects how SetSequence obtains its paths.
type SourceKind int

const (
	// DirectorySource scans a directory in the background.
	DirectorySource SourceKind = iota
	// FileSource loads a single image file.
	FileSource
	// ScanSource scans a list of files and directories in the background.
	ScanSource
	// ExplicitListSource adopts the given paths as they are, with no scan.
	ExplicitListSource
)

func (k SourceKind) String() string {
	switch k {
	case DirectorySource:
		return "directory"
	case FileSource:
		return "file"
	case ScanSource:
		return "scan"
	case ExplicitListSource:
		return "list"
	default:
		return "unknown"
	}
}

// Source is the argument of SetSequence.
type Source struct {
	Kind  SourceKind
	Paths []string
}

// Directory returns a source scanning dir.
func Directory(dir string) Source {
	return Source{Kind: DirectorySource, Paths: []string{dir}}
}

// File returns a source holding the single image at path.
func File(path string) Source {
	return Source{Kind: FileSource, Paths: []string{path}}
}

// Scan returns a source scanning a mix of files and directories.
func Scan(paths ...string) Source {
	return Source{Kind: ScanSource, Paths: append([]string(nil), paths...)}
}

// List returns a source adopting paths verbatim.
func List(paths ...string) Source {
	return Source{Kind: ExplicitListSource, Paths: append([]string(nil), paths...)}
}

// ForPath picks a Directory or File source depending on what path is on disk.
func ForPath(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %s", ErrInvalidTarget, path)
	}
	if info.IsDir() {
		return Directory(path), nil
	}
	return File(path), nil
}

// target validates the source against the filesystem and converts it into
// a loader target. ok is false for explicit lists, which need no loader.
func (s Source) target() (t scan.Target, ok bool, err error) {
	switch s.Kind {
	case DirectorySource:
		if len(s.Paths) != 1 {
			return t, false, fmt.Errorf("%w: directory source needs exactly one path", ErrInvalidTarget)
		}
		info, err := os.Stat(s.Paths[0])
		if err != nil || !info.IsDir() {
			return t, false, fmt.Errorf("%w: %s is not a directory", ErrInvalidTarget, s.Paths[0])
		}
		return scan.DirTarget(s.Paths[0]), true, nil
	case FileSource:
		if len(s.Paths) != 1 {
			return t, false, fmt.Errorf("%w: file source needs exactly one path", ErrInvalidTarget)
		}
		info, err := os.Stat(s.Paths[0])
		if err != nil || !info.Mode().IsRegular() {
			return t, false, fmt.Errorf("%w: %s is not a file", ErrInvalidTarget, s.Paths[0])
		}
		return scan.FileTarget(s.Paths[0]), true, nil
	case ScanSource:
		for _, p := range s.Paths {
			if _, err := os.Stat(p); err == nil {
				return scan.ListTarget(s.Paths...), true, nil
			}
		}
		return t, false, fmt.Errorf("%w: none of %d paths exist", ErrInvalidTarget, len(s.Paths))
	case ExplicitListSource:
		return t, false, nil
	default:
		return t, false, fmt.Errorf("%w: unknown source kind %d", ErrInvalidTarget, s.Kind)
	}
}
