package tool

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Validator is implemented by request types that check themselves after decoding.
type Validator interface {
	Validate() error
}

// TypedFunc is a tool implementation with a typed request.
type TypedFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// NewTyped builds a Spec whose arguments are decoded into Req before fn runs.
// Fields of Req are matched by their json tag.
//
// Example usage:
//
//	spec := NewTyped("spec_parser", "Extract CPU/GPU specs from text", schema, parser.Parse)
func NewTyped[Req, Resp any](name, description string, params *Schema, fn TypedFunc[Req, Resp]) Spec {
	return Spec{
		Name:        name,
		Description: description,
		Parameters:  params,
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			req, err := decodeArgs[Req](args)
			if err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			if v, ok := any(req).(Validator); ok {
				if err := v.Validate(); err != nil {
					return nil, fmt.Errorf("%s validation failed: %w", name, err)
				}
			}

			return fn(ctx, req)
		},
	}
}

func decodeArgs[Req any](args map[string]any) (Req, error) {
	var req Req
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &req,
	})
	if err != nil {
		return req, err
	}
	if err := dec.Decode(args); err != nil {
		return req, err
	}
	return req, nil
}
