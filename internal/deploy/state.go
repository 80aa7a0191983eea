package deploy

// State is a step in the deploy lifecycle.
type State string

// Deploy states. Failed may follow any state; Live is terminal.
const (
	StateIdle           State = "idle"
	StateSiteResolving  State = "site_resolving"
	StateDeployCreated  State = "deploy_created"
	StateFilesUploading State = "files_uploading"
	StateLive           State = "live"
	StateFailed         State = "failed"
)

var transitions = map[State][]State{
	StateIdle:           {StateSiteResolving},
	StateSiteResolving:  {StateDeployCreated},
	StateDeployCreated:  {StateFilesUploading},
	StateFilesUploading: {StateLive},
}

// CanTransition reports whether the lifecycle allows moving from one state to another.
func CanTransition(from, to State) bool {
	if to == StateFailed {
		return from != StateLive && from != StateFailed
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// tracker records the state history of one deploy.
type tracker struct {
	current State
	history []State
	hook    func(State)
}

func newTracker(hook func(State)) *tracker {
	return &tracker{current: StateIdle, history: []State{StateIdle}, hook: hook}
}

func (t *tracker) move(to State) {
	if !CanTransition(t.current, to) {
		return
	}
	t.current = to
	t.history = append(t.history, to)
	if t.hook != nil {
		t.hook(to)
	}
}
