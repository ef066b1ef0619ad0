package orchestration

import "log"

// EventType classifies orchestration progress events.
type EventType string

const (
	// EventNodeStarted indicates a node's apply has begun.
	EventNodeStarted EventType = "node.started"
	// EventNodeReady indicates a node was provisioned and configured.
	EventNodeReady EventType = "node.ready"
	// EventNodeFailed indicates a node's apply failed.
	EventNodeFailed EventType = "node.failed"
	// EventSweepCompleted indicates the whole sweep finished.
	EventSweepCompleted EventType = "sweep.completed"
)

// Event is a structured progress event emitted during a sweep.
type Event struct {
	Type     EventType
	NodeID   int
	Hostname string
	Message  string
}

// Observer receives progress events from the orchestrator.
type Observer interface {
	Event(event Event)
}

// logObserver writes events through the standard logger.
type logObserver struct{}

func (logObserver) Event(e Event) {
	switch e.Type {
	case EventSweepCompleted:
		log.Printf("[%s] %s", e.Type, e.Message)
	case EventNodeFailed:
		log.Printf("[%s] node %d (%s): %s", e.Type, e.NodeID, e.Hostname, e.Message)
	default:
		log.Printf("[%s] node %d (%s)", e.Type, e.NodeID, e.Hostname)
	}
}

// NewLogObserver returns an Observer that logs every event via the
// standard logger.
func NewLogObserver() Observer {
	return logObserver{}
}
