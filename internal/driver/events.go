package driver

import "context"

// Stage reports where a log is in the scan pipeline.
type Stage uint8

const (
	StageQueued Stage = iota
	StageLoading
	StageClassifying
	// StageCached means the classification was served from the disk cache.
	StageCached
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageLoading:
		return "loading"
	case StageClassifying:
		return "classifying"
	case StageCached:
		return "cached"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events follow for the log.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Event describes progress of a single log.
type Event struct {
	Path  string
	Stage Stage
	// Count is the number of diagnostics kept for the log once it is done.
	Count int
	Err   error
}

// emit delivers ev unless the channel is nil or ctx is cancelled first.
func emit(ctx context.Context, ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
