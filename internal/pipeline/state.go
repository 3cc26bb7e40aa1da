package pipeline

// State tracks pipeline progress. Transitions are strictly linear; any state
// may fall to StateFailed instead of advancing, and StateFailed is terminal.
type State int

const (
	StateIdle State = iota
	StatePrecondition
	StateVersionComputed
	StateFilesSynced
	StateArchivesBuilt
	StateTagged
	StatePublished
	StateNotified
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StatePrecondition:    "precondition-check",
	StateVersionComputed: "version-computed",
	StateFilesSynced:     "files-synced",
	StateArchivesBuilt:   "archives-built",
	StateTagged:          "committed-and-tagged",
	StatePublished:       "published",
	StateNotified:        "notified",
	StateDone:            "done",
	StateFailed:          "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}
