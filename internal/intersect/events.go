package intersect

import "time"

// Stage is a phase of an intersection run.
type Stage string

const (
	StageIndex  Stage = "index"
	StageTypes  Stage = "types"
	StageNested Stage = "nested"
	StageStubs  Stage = "stubs"
)

// Status captures progress within a stage.
type Status string

const (
	StatusWorking Status = "working"
	StatusKept    Status = "kept"
	StatusDropped Status = "dropped"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one type, or for the stage when Type is empty.
type Event struct {
	Stage   Stage
	Type    string
	Status  Status
	Done    int
	Total   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
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

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }
