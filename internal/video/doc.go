// Package video provides frame sources and display sinks for the tracking
// loop.
//
// FileSource and DirSink are pure Go. Camera and Window talk to OpenCV and
// are only functional when built with -tags gocv; without the tag they fail
// with errdefs.ErrSourceUnavailable and errdefs.ErrInvalidConfiguration so the
// CLI can report a clear error.
package video
