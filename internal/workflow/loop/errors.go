package loop

import "fmt"

// MaxIterationsExceededError is returned when the model kept requesting tools
// for Limit consecutive turns without producing a final answer.
type MaxIterationsExceededError struct {
	Limit int
}

func (e *MaxIterationsExceededError) Error() string {
	return fmt.Sprintf("max iterations (%d) reached", e.Limit)
}
