package bridge

// State of the deferred-apply sequencer. A view may only construct its
// engine session once both the file and the selection-action set are known,
// because selection menus are registered at construction time and cannot be
// changed afterwards.
//
// Idle -> FileReceived -> ReadyToBuild -> Building -> Attached -> Detached
//
// Detached is terminal: a remount creates a fresh view, instances are never
// reused in place. A file change while attached tears the session down and
// restarts from FileReceived.
type State int

const (
	StateIdle State = iota
	StateFileReceived
	StateReadyToBuild
	StateBuilding
	StateAttached
	StateDetached
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateFileReceived: "file-received",
	StateReadyToBuild: "ready-to-build",
	StateBuilding:     "building",
	StateAttached:     "attached",
	StateDetached:     "detached",
}

func (s State) String() string {
	return stateNames[s]
}
