package tracker

import (
	"bufio"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/ball-tracker/internal/detection"
)

// FormatRecord formats one detection line:
//
//	Number of circles = 1, ball position x = 320, y = 240.5, radius = 42.25
//
// Numbers use at most six significant digits without trailing zeros.
func FormatRecord(count int, c detection.Circle) string {
	var b strings.Builder
	b.WriteString("Number of circles = ")
	b.WriteString(strconv.Itoa(count))
	b.WriteString(", ball position x = ")
	b.WriteString(formatFloat(c.X))
	b.WriteString(", y = ")
	b.WriteString(formatFloat(c.Y))
	b.WriteString(", radius = ")
	b.WriteString(formatFloat(c.Radius))
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Reporter is a Sink writing one FormatRecord line per circle.
type Reporter struct {
	w *bufio.Writer
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: bufio.NewWriter(w)}
}

// Show writes the records of a frame and flushes them.
func (r *Reporter) Show(_ image.Image, result Result) error {
	for _, c := range result.Circles {
		r.w.WriteString(FormatRecord(len(result.Circles), c))
		r.w.WriteByte('\n')
	}
	return r.w.Flush()
}
