package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// ImageInfo holds what the status line shows about an image file.
type ImageInfo struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Position int // 1-based position in the sequence
	Total    int
	Starred  bool
}

// String formats the info for a status line.
func (i ImageInfo) String() string {
	star := ""
	if i.Starred {
		star = " ★"
	}
	return fmt.Sprintf("%s%s  [%s/%s]  %s, modified %s",
		filepath.Base(i.Path), star,
		humanize.Comma(int64(i.Position)), humanize.Comma(int64(i.Total)),
		humanize.Bytes(uint64(i.Size)), humanize.Time(i.ModTime))
}

// CurrentInfo describes the current image.
func (s *Service) CurrentInfo() (*ImageInfo, error) {
	current := s.Navigator.Current()
	if current == "" {
		return nil, fmt.Errorf("no current image")
	}
	fi, err := os.Stat(current)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	return &ImageInfo{
		Path:     current,
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
		Position: s.Navigator.Index() + 1,
		Total:    s.Navigator.Len(),
		Starred:  s.Settings.IsStarred(current),
	}, nil
}
