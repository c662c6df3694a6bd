package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command, load, emit
	ScopePass                    // type pass, nested pass, stub planning
	ScopeType                    // one type identity across all variants
	ScopeMember                  // a single member decision
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeType:
		return "type"
	case ScopeMember:
		return "member"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time      // wall-clock timestamp
	Seq      uint64         // global sequence number
	Kind     Kind           // event kind
	Scope    Scope          // granularity level
	SpanID   uint64         // unique span identifier
	ParentID uint64         // parent span (0 if root)
	Name     string         // stage or decision, e.g. "types", "drop"
	Symbol   string         // type or member identity the event is about
	Detail   string         // optional detail message
	Counts   map[string]int // tallies attached to a span end
}
