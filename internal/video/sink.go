package video

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/ball-tracker/internal/annotate"
	"github.com/ironsheep/ball-tracker/internal/tracker"
)

// DirSink writes annotated frames and their masks as PNG files.
type DirSink struct {
	dir   string
	every int
	style annotate.Style
}

// NewDirSink creates dir if needed. Every every-th frame is written, starting
// with the first; every < 1 writes all frames.
func NewDirSink(dir string, every int, style annotate.Style) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if every < 1 {
		every = 1
	}
	return &DirSink{dir: dir, every: every, style: style}, nil
}

// Show writes frame_NNNNNN.png and mask_NNNNNN.png for the frame.
func (d *DirSink) Show(frame image.Image, result tracker.Result) error {
	if result.Index%d.every != 0 || frame.Bounds().Empty() {
		return nil
	}

	annotated := annotate.Annotate(frame, result.Circles, d.style)
	if err := imgio.Save(d.FramePath(result.Index), annotated, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", result.Index, err)
	}

	if result.Mask.ZeroArea() {
		return nil
	}
	if err := imgio.Save(d.MaskPath(result.Index), result.Mask.Gray, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write mask %d: %w", result.Index, err)
	}
	return nil
}

// FramePath is where the annotated frame with the given index is written.
func (d *DirSink) FramePath(index int) string {
	return filepath.Join(d.dir, fmt.Sprintf("frame_%06d.png", index))
}

// MaskPath is where the mask of the frame with the given index is written.
func (d *DirSink) MaskPath(index int) string {
	return filepath.Join(d.dir, fmt.Sprintf("mask_%06d.png", index))
}
