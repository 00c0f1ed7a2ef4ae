package types

import (
	"errors"
	"fmt"
)

// Entity and relation errors.
var (
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrConfirmationRequired = errors.New("deletion requires --force")
	ErrCorruptRow           = errors.New("corrupt row")
	ErrRelationExists       = errors.New("relation already exists")
	ErrNoRelation           = errors.New("no relation found")
)

// Validation errors.
var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidValue    = errors.New("invalid value")
	ErrInvalidKey      = errors.New("invalid key")
	ErrInvalidSetArg   = errors.New("invalid set argument")
	ErrKeyImmutable    = errors.New("key fields cannot be changed")
	ErrUnknownKind     = errors.New("unknown entity kind")
	ErrUnknownRelation = errors.New("unknown relation")
)

// ErrNotInProject is returned when no world can be discovered from the
// working directory, the --world flag or NARRATA_WORLD.
var ErrNotInProject = errors.New("not in a narrata project (run 'narrata init')")

// EntityError reports a failure on a named entity. Its message depends on
// the wrapped sentinel: "Character 'aragorn' not found",
// "Character 'aragorn' already exists".
type EntityError struct {
	Name string // display name of the kind, e.g. "Character"
	Key  string // formatted logical key
	Err  error
}

func (e *EntityError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("%s '%s' not found", e.Name, e.Key)
	case errors.Is(e.Err, ErrAlreadyExists):
		return fmt.Sprintf("%s '%s' already exists", e.Name, e.Key)
	default:
		return fmt.Sprintf("%s '%s': %v", e.Name, e.Key, e.Err)
	}
}

func (e *EntityError) Unwrap() error { return e.Err }

// TargetNotFoundError reports a relation target that does not resolve to an
// existing entity. Hint, when set, is the command that would create it.
type TargetNotFoundError struct {
	Name string
	Key  string
	Hint string
}

func (e *TargetNotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: '%s'", e.Name, e.Key)
	if e.Hint != "" {
		msg += ". Create it first with: " + e.Hint
	}
	return msg
}

func (e *TargetNotFoundError) Unwrap() error { return ErrNotFound }

// CorruptRowError reports a stored value that could not be decoded back
// into its record field.
type CorruptRowError struct {
	Table  string
	Column string
	ID     int64
	Err    error
}

func (e *CorruptRowError) Error() string {
	return fmt.Sprintf("corrupt row %d in %s: column %s: %v", e.ID, e.Table, e.Column, e.Err)
}

func (e *CorruptRowError) Unwrap() []error { return []error{ErrCorruptRow, e.Err} }
