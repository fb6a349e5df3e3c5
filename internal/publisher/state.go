package publisher

import "fmt"

// State is the position of a publish run in the edit lifecycle.
type State int

const (
	Idle State = iota
	EditOpen
	BinaryUploaded
	TrackUpdated
	Committed
	// RolledBack means the edit was deleted after a failure.
	RolledBack
	// Failed means the run failed and no edit is known to be left open, or
	// the rollback itself failed.
	Failed
)

var stateNames = [...]string{
	Idle:           "idle",
	EditOpen:       "edit_open",
	BinaryUploaded: "binary_uploaded",
	TrackUpdated:   "track_updated",
	Committed:      "committed",
	RolledBack:     "rolled_back",
	Failed:         "failed",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Committed || s == RolledBack || s == Failed
}

// transitions lists the legal moves. Every open state may fall into
// RolledBack or Failed.
var transitions = map[State][]State{
	Idle:           {EditOpen, Failed},
	EditOpen:       {BinaryUploaded, RolledBack, Failed},
	BinaryUploaded: {TrackUpdated, RolledBack, Failed},
	TrackUpdated:   {Committed, RolledBack, Failed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
