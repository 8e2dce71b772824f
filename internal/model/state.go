package model

import (
	"errors"
	"fmt"
)

var ErrInvalidState = errors.New("model: invalid conversation state")

type StateKind string

const (
	StateIdle       StateKind = "idle"
	StateAdding     StateKind = "adding"
	StateCompleting StateKind = "completing"
	StateDeleting   StateKind = "deleting"
)

func (k StateKind) IsValid() bool {
	switch k {
	case StateIdle, StateAdding, StateCompleting, StateDeleting:
		return true
	default:
		return false
	}
}

type AddStep string

const (
	StepName     AddStep = "name"
	StepPriority AddStep = "priority"
	StepDeadline AddStep = "deadline"
)

func (s AddStep) IsValid() bool {
	switch s {
	case StepName, StepPriority, StepDeadline:
		return true
	default:
		return false
	}
}

// ConversationState is the transient per-user flow context. Exactly one
// state exists per user; draft fields are only meaningful while Kind is
// StateAdding.
type ConversationState struct {
	Kind          StateKind
	Step          AddStep
	DraftName     string
	DraftPriority int
}

func Idle() ConversationState {
	return ConversationState{Kind: StateIdle}
}

func (s ConversationState) Validate() error {
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidState, s.Kind)
	}
	if s.Kind == StateAdding && !s.Step.IsValid() {
		return fmt.Errorf("%w: add step %q", ErrInvalidState, s.Step)
	}
	return nil
}
