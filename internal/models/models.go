package models

import (
	"errors"
	"fmt"

	"github.com/san-kum/sparsedyn/internal/dynamo"
)

// ErrUnknownParam indicates a SetParam name the model does not have.
var ErrUnknownParam = errors.New("models: unknown parameter")

// Model is a dynamical system with a canonical initial condition.
type Model interface {
	dynamo.System
	DefaultState() dynamo.State
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, model, name)
}
