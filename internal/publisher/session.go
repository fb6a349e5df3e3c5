package publisher

import "fmt"

// editSession is the orchestrator's view of one open edit. It is never shared
// and is discarded once it reaches a terminal state.
type editSession struct {
	id          string
	packageName string
	state       State
	versionCode int64
}

func newEditSession(packageName, id string) *editSession {
	s := &editSession{id: id, packageName: packageName, state: Idle}
	s.transition(EditOpen)
	return s
}

// transition moves the session to the next state. An illegal move is a bug
// in the orchestrator.
func (s *editSession) transition(to State) {
	if s.state.Terminal() || !canTransition(s.state, to) {
		panic(fmt.Sprintf("publisher: illegal edit transition %s -> %s", s.state, to))
	}
	s.state = to
}

func (s *editSession) result() *Result {
	return &Result{
		EditID:      s.id,
		PackageName: s.packageName,
		VersionCode: s.versionCode,
		State:       s.state,
	}
}
