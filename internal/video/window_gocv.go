//go:build gocv

package video

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"go.uber.org/multierr"

	"github.com/ironsheep/ball-tracker/internal/annotate"
	"github.com/ironsheep/ball-tracker/internal/tracker"
)

const escKey = 27

// Window shows annotated frames and their masks in two desktop windows.
type Window struct {
	frameWin *gocv.Window
	maskWin  *gocv.Window
	style    annotate.Style
	lastKey  int
}

// NewWindow opens the frame and mask windows.
func NewWindow(frameTitle, maskTitle string, style annotate.Style) (*Window, error) {
	return &Window{
		frameWin: gocv.NewWindow(frameTitle),
		maskWin:  gocv.NewWindow(maskTitle),
		style:    style,
		lastKey:  -1,
	}, nil
}

// Show displays the frame and mask, then polls the keyboard for 1ms.
func (w *Window) Show(frame image.Image, result tracker.Result) error {
	annotated := annotate.Annotate(frame, result.Circles, w.style)
	frameMat, err := gocv.ImageToMatRGB(annotated)
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	defer frameMat.Close()
	w.frameWin.IMShow(frameMat)

	if !result.Mask.ZeroArea() {
		maskMat, err := gocv.ImageGrayToMatGray(result.Mask.Gray)
		if err != nil {
			return fmt.Errorf("failed to convert mask: %w", err)
		}
		defer maskMat.Close()
		w.maskWin.IMShow(maskMat)
	}

	w.lastKey = w.frameWin.WaitKey(1)
	return nil
}

// Continue reports false once Esc was pressed in either window.
func (w *Window) Continue() bool {
	return w.lastKey != escKey
}

// Close destroys both windows.
func (w *Window) Close() error {
	return multierr.Combine(w.frameWin.Close(), w.maskWin.Close())
}
