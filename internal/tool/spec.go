package tool

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ExecuteFunc runs a tool with arguments already decoded by the transport.
// The result is sent back to the model as text: strings are used as-is,
// fmt.Stringer values through String, anything else is JSON encoded.
type ExecuteFunc func(ctx context.Context, args map[string]any) (any, error)

// Spec describes one invocable tool.
type Spec struct {
	Name        string
	Description string
	Parameters  *Schema
	Execute     ExecuteFunc

	// set by Registry.Register
	validator *jsonschema.Resolved
}

// Declaration returns the part of the spec advertised to the model.
func (s *Spec) Declaration() Declaration {
	return Declaration{
		Name:        s.Name,
		Description: s.Description,
		Parameters:  s.Parameters,
	}
}

// Invoke validates args against the parameter schema, runs the tool and
// serializes the result. Every failure, including a panic inside the tool, is
// returned as *ToolExecutionError.
func (s *Spec) Invoke(ctx context.Context, args map[string]any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", &ToolExecutionError{Name: s.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	normalized, err := normalizeArgs(args)
	if err != nil {
		return "", &ToolExecutionError{Name: s.Name, Err: fmt.Errorf("invalid arguments: %w", err)}
	}

	if s.validator != nil {
		if err := s.validator.Validate(normalized); err != nil {
			return "", &ToolExecutionError{Name: s.Name, Err: fmt.Errorf("invalid arguments: %w", err)}
		}
	}

	res, err := s.Execute(ctx, normalized)
	if err != nil {
		return "", &ToolExecutionError{Name: s.Name, Err: err}
	}

	text, err := stringify(res)
	if err != nil {
		return "", &ToolExecutionError{Name: s.Name, Err: fmt.Errorf("failed to marshal result: %w", err)}
	}
	return text, nil
}

// normalizeArgs round-trips args through JSON so that numbers are float64 and
// nested values are plain maps and slices, which is what the validator expects
// regardless of which transport decoded them.
func normalizeArgs(args map[string]any) (map[string]any, error) {
	if len(args) == 0 {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(args))
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func stringify(v any) (string, error) {
	switch r := v.(type) {
	case nil:
		return "", nil
	case string:
		return r, nil
	case []byte:
		return string(r), nil
	case fmt.Stringer:
		return r.String(), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// compileSchema resolves s into a validator. A nil schema accepts anything.
func compileSchema(s *Schema) (*jsonschema.Resolved, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var js jsonschema.Schema
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, err
	}
	return js.Resolve(nil)
}
