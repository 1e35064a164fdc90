package domain

import "fmt"

// TransferState is a step of the transfer lifecycle
type TransferState string

const (
	StateIdle       TransferState = "idle"
	StateRequesting TransferState = "requesting"
	StateResolving  TransferState = "resolving"
	StateStreaming  TransferState = "streaming"
	StateCompleted  TransferState = "completed"
	StateCanceled   TransferState = "canceled"
	StateFailed     TransferState = "failed"
)

var stateTransitions = map[TransferState][]TransferState{
	StateIdle:       {StateRequesting, StateCanceled, StateFailed},
	StateRequesting: {StateResolving, StateCanceled, StateFailed},
	StateResolving:  {StateStreaming, StateCanceled, StateFailed},
	StateStreaming:  {StateCompleted, StateCanceled, StateFailed},
}

// String returns the string representation of TransferState
func (s TransferState) String() string {
	return string(s)
}

// IsTerminal returns true for completed, canceled and failed
func (s TransferState) IsTerminal() bool {
	return s == StateCompleted || s == StateCanceled || s == StateFailed
}

// CanTransitionTo reports whether next is a legal successor of s
func (s TransferState) CanTransitionTo(next TransferState) bool {
	for _, allowed := range stateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StateMachine tracks the lifecycle of a single transfer. It is not safe for concurrent use.
type StateMachine struct {
	current TransferState
}

// NewStateMachine creates a state machine in StateIdle
func NewStateMachine() *StateMachine {
	return &StateMachine{current: StateIdle}
}

// Current returns the current state
func (m *StateMachine) Current() TransferState {
	return m.current
}

// Transition moves to next or returns ErrInvalidStateTransition
func (m *StateMachine) Transition(next TransferState) error {
	if !m.current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, m.current, next)
	}
	m.current = next
	return nil
}

// StateFor maps an outcome status to its terminal state
func StateFor(status OutcomeStatus) TransferState {
	switch status {
	case OutcomeCompleted:
		return StateCompleted
	case OutcomeCanceled:
		return StateCanceled
	default:
		return StateFailed
	}
}
