package driver

import "time"

// Stage describes a phase of checking one report.
type Stage string

const (
	StageLoad  Stage = "load"
	StageParse Stage = "parse"
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the report is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the report is being checked.
	StatusWorking Status = "working"
	// StatusDone: the report is valid.
	StatusDone Status = "done"
	// StatusError: the report is invalid or could not be loaded.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
