package core

// Action is a semantic input, decoupled from physical keys.
type Action int

const (
	ActionNone        Action = iota
	ActionLeft               // A, Left arrow - steer the runner left
	ActionRight              // D, Right arrow - steer the runner right
	ActionConfirm            // Enter, Space - start, continue, retry
	ActionToggleSound        // M - mute/unmute
	ActionPause              // P, Escape
	ActionRestart            // R - abandon the run and start over
	ActionQuit               // Q, Ctrl+C
)

var actionNames = [...]string{
	ActionNone:        "None",
	ActionLeft:        "Left",
	ActionRight:       "Right",
	ActionConfirm:     "Confirm",
	ActionToggleSound: "ToggleSound",
	ActionPause:       "Pause",
	ActionRestart:     "Restart",
	ActionQuit:        "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether the action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Steer returns -1, 0 or 1 for the lateral direction requested this frame.
// Opposite keys in the same frame cancel out.
func (f InputFrame) Steer() int {
	dir := 0
	if f.Has(ActionLeft) {
		dir--
	}
	if f.Has(ActionRight) {
		dir++
	}
	return dir
}
