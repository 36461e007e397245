package runner

import "time"

// Status is the lifecycle state of one evaluator within a run.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Progress reports a status change of one evaluator.
type Progress struct {
	Evaluator string
	Status    Status
	Err       error
	Elapsed   time.Duration
}

// ProgressSink consumes progress updates. OnProgress is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnProgress(Progress)
}

// ChannelSink forwards progress into a channel.
type ChannelSink struct {
	Ch chan<- Progress
}

func (s ChannelSink) OnProgress(p Progress) {
	if s.Ch == nil {
		return
	}
	s.Ch <- p
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Progress)

func (f SinkFunc) OnProgress(p Progress) { f(p) }
