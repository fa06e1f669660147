package loop

// State is the position of the loop in its state machine.
type State int

const (
	StateAwaitingUser State = iota
	StateModelTurn
	StateExecutingTools
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingUser:
		return "awaiting_user"
	case StateModelTurn:
		return "model_turn"
	case StateExecutingTools:
		return "executing_tools"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
