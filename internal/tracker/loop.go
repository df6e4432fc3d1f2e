package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

// Reason tells why a tracking loop ended.
type Reason int

const (
	// EndOfStream means the source ran out of frames.
	EndOfStream Reason = iota
	// Stopped means the continue predicate returned false.
	Stopped
	// Cancelled means the context was cancelled.
	Cancelled
	// ReadFailure means the source failed to deliver a frame.
	ReadFailure
	// Failed means processing or displaying a frame failed.
	Failed
)

func (r Reason) String() string {
	switch r {
	case EndOfStream:
		return "end_of_stream"
	case Stopped:
		return "stopped"
	case Cancelled:
		return "cancelled"
	case ReadFailure:
		return "read_failure"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Frames     int
	Detections int
	Reason     Reason
	// Err is the error that ended the loop for ReadFailure and Failed.
	Err error
}

// Loop drives a Pipeline over a Source, one frame at a time.
type Loop struct {
	pipeline *Pipeline
	logger   *zap.Logger
	runID    string
}

// NewLoop returns a Loop with a fresh run id. A nil logger disables logging.
func NewLoop(pipeline *Pipeline, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Loop{
		pipeline: pipeline,
		logger:   logger.With(zap.String("run_id", id)),
		runID:    id,
	}
}

// Run processes frames until the source ends, the context is cancelled,
// cont returns false, or a frame fails. Each frame is fully processed and
// shown before the next one is read. cont may be nil.
//
// A read failure ends the loop like the end of the stream does; it is
// reported in the Summary, not as a panic or a retry.
func (l *Loop) Run(ctx context.Context, src Source, sink Sink, cont ContinueFunc) Summary {
	sum := Summary{RunID: l.runID}
	l.logger.Info("tracking started")

	defer func() {
		fields := []zap.Field{
			zap.Stringer("reason", sum.Reason),
			zap.Int("frames", sum.Frames),
			zap.Int("detections", sum.Detections),
		}
		if sum.Err != nil {
			l.logger.Warn("tracking ended", append(fields, zap.Error(sum.Err))...)
			return
		}
		l.logger.Info("tracking ended", fields...)
	}()

	for {
		if ctx.Err() != nil {
			sum.Reason = Cancelled
			return sum
		}

		frame, err := src.Next(ctx)
		switch {
		case errors.Is(err, errdefs.ErrEndOfStream):
			sum.Reason = EndOfStream
			return sum
		case err != nil && ctx.Err() != nil:
			sum.Reason = Cancelled
			return sum
		case err != nil:
			if !errors.Is(err, errdefs.ErrFrameRead) {
				err = fmt.Errorf("%w: %w", errdefs.ErrFrameRead, err)
			}
			sum.Reason = ReadFailure
			sum.Err = err
			return sum
		}

		prepared, result, err := l.pipeline.Process(frame)
		if err != nil {
			sum.Reason = Failed
			sum.Err = err
			return sum
		}
		result.Index = sum.Frames
		sum.Frames++
		sum.Detections += len(result.Circles)

		if ce := l.logger.Check(zap.DebugLevel, "frame processed"); ce != nil {
			ce.Write(
				zap.Int("frame", result.Index),
				zap.Int("circles", len(result.Circles)),
				zap.Int("mask_pixels", result.Mask.Count()),
			)
		}

		if err := sink.Show(prepared, result); err != nil {
			sum.Reason = Failed
			sum.Err = err
			return sum
		}

		if cont != nil && !cont() {
			sum.Reason = Stopped
			return sum
		}
	}
}
