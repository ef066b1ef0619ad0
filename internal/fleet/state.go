package fleet

// State is the lifecycle state of a single node.
type State string

const (
	// StatePending means the node has not been touched by this run yet.
	StatePending State = "Pending"
	// StateProvisioning means an apply for the node is in flight.
	StateProvisioning State = "Provisioning"
	// StateReady means the node was created and configured successfully.
	StateReady State = "Ready"
	// StateFailed means the last apply for the node failed; it is
	// eligible for retry.
	StateFailed State = "Failed"
)

// allowedTransitions enumerates the legal state machine edges.
// Failed→Provisioning is the retry path.
var allowedTransitions = map[State][]State{
	StatePending:      {StateProvisioning},
	StateProvisioning: {StateReady, StateFailed},
	StateFailed:       {StateProvisioning},
}

func transitionAllowed(from, to State) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
