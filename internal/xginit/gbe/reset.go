package gbe

import (
	"time"

	"xginit/pkg/logger"
	"xginit/pkg/platform"
)

// ResetSequencer owns the core's reset GPIO line. Asserted (1) holds the
// core in reset, released (0) lets it run. Every state change is followed
// by a fixed settle interval; shorter waits have been observed to leave the
// core inconsistent.
type ResetSequencer struct {
	line   platform.Line
	settle time.Duration
	logger *logger.Logger
}

// NewResetSequencer wraps an exclusively-owned GPIO line.
func NewResetSequencer(line platform.Line, settle time.Duration) *ResetSequencer {
	return &ResetSequencer{
		line:   line,
		settle: settle,
		logger: logger.WithField("component", "reset"),
	}
}

// Acquire requests the line as an output with reset already asserted, so
// the core is held from the instant the line is ours, then settles.
func (r *ResetSequencer) Acquire(consumer string) error {
	if err := r.line.RequestOutput(consumer, 1); err != nil {
		return err
	}
	r.logger.Debug("reset asserted on acquire", "settle", r.settle)
	time.Sleep(r.settle)
	return nil
}

// Assert drives the core into reset and settles.
func (r *ResetSequencer) Assert() error {
	if err := r.line.SetValue(1); err != nil {
		return err
	}
	r.logger.Debug("reset asserted", "settle", r.settle)
	time.Sleep(r.settle)
	return nil
}

// Release lets the core out of reset and settles.
func (r *ResetSequencer) Release() error {
	if err := r.line.SetValue(0); err != nil {
		return err
	}
	r.logger.Debug("reset released", "settle", r.settle)
	time.Sleep(r.settle)
	return nil
}
