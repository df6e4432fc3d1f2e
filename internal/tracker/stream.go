package tracker

import (
	"context"
	"image"
	"io"

	"go.uber.org/multierr"
)

// Source delivers frames in order. Next returns errdefs.ErrEndOfStream when
// no frames are left; any other error is a frame read failure.
type Source interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// Sink receives every processed frame with its result, in order.
type Sink interface {
	Show(frame image.Image, result Result) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(frame image.Image, result Result) error

// Show calls f.
func (f SinkFunc) Show(frame image.Image, result Result) error { return f(frame, result) }

// ContinueFunc is polled once after every frame; returning false stops the
// loop before the next frame is read.
type ContinueFunc func() bool

// MultiSink fans every frame out to several sinks.
type MultiSink []Sink

// Show calls every sink, even after a failure, and combines their errors.
func (m MultiSink) Show(frame image.Image, result Result) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Show(frame, result))
	}
	return err
}

// Close closes every sink implementing io.Closer.
func (m MultiSink) Close() error {
	var err error
	for _, s := range m {
		if c, ok := s.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
