package tool

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName     = errors.New("tool name is empty")
	ErrNilExecute    = errors.New("tool has no execute function")
	ErrInvalidSchema = errors.New("invalid parameter schema")
)

// DuplicateToolError is returned by Register when the name is already taken.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// UnknownToolError is returned by Resolve for a name that was never registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// ToolExecutionError wraps invalid arguments, a tool failure or a tool panic.
type ToolExecutionError struct {
	Name string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("error executing tool %q: %v", e.Name, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}
