package video

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// FileSource replays still images as a video stream, in lexical path order.
type FileSource struct {
	paths []string
	next  int
}

// NewFileSource lists the frames named by pattern: a directory (every image
// file directly inside it) or a glob. No matching files is
// errdefs.ErrSourceUnavailable.
func NewFileSource(pattern string) (*FileSource, error) {
	paths, err := listFrames(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errdefs.ErrSourceUnavailable, pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no image files match %s", errdefs.ErrSourceUnavailable, pattern)
	}
	return &FileSource{paths: paths}, nil
}

func listFrames(pattern string) ([]string, error) {
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		entries, err := os.ReadDir(pattern)
		if err != nil {
			return nil, err
		}
		var paths []string
		for _, e := range entries {
			if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			paths = append(paths, filepath.Join(pattern, e.Name()))
		}
		sort.Strings(paths)
		return paths, nil
	}

	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Next decodes the next file. A file that cannot be decoded is a frame read
// failure.
func (s *FileSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.paths) {
		return nil, errdefs.ErrEndOfStream
	}
	path := s.paths[s.next]
	s.next++

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errdefs.ErrFrameRead, err)
	}
	return img, nil
}

// Close releases nothing; files are opened and closed per frame.
func (s *FileSource) Close() error {
	s.next = len(s.paths)
	return nil
}
