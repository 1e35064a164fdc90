package domain

import (
	"errors"
	"testing"
)

func TestStateMachine_HappyPath(t *testing.T) {
	m := NewStateMachine()
	if m.Current() != StateIdle {
		t.Fatalf("initial state = %v, want %v", m.Current(), StateIdle)
	}

	for _, next := range []TransferState{StateRequesting, StateResolving, StateStreaming, StateCompleted} {
		if err := m.Transition(next); err != nil {
			t.Fatalf("Transition(%v) error = %v", next, err)
		}
	}
	if !m.Current().IsTerminal() {
		t.Errorf("state %v should be terminal", m.Current())
	}
}

func TestStateMachine_CancelFromEveryActiveState(t *testing.T) {
	paths := [][]TransferState{
		{},
		{StateRequesting},
		{StateRequesting, StateResolving},
		{StateRequesting, StateResolving, StateStreaming},
	}

	for _, path := range paths {
		m := NewStateMachine()
		for _, s := range path {
			if err := m.Transition(s); err != nil {
				t.Fatalf("Transition(%v) error = %v", s, err)
			}
		}
		if err := m.Transition(StateCanceled); err != nil {
			t.Errorf("cancel from %v: error = %v", m.Current(), err)
		}
	}
}

func TestStateMachine_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []TransferState{StateCompleted, StateCanceled, StateFailed} {
		for _, next := range []TransferState{StateIdle, StateRequesting, StateStreaming, StateCompleted, StateCanceled, StateFailed} {
			if terminal.CanTransitionTo(next) {
				t.Errorf("%v -> %v should be rejected", terminal, next)
			}
		}
	}
}

func TestStateMachine_InvalidTransition(t *testing.T) {
	m := NewStateMachine()
	err := m.Transition(StateStreaming)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("Transition(streaming) from idle error = %v, want ErrInvalidStateTransition", err)
	}
	if m.Current() != StateIdle {
		t.Errorf("state changed on invalid transition: %v", m.Current())
	}
}

func TestStateFor(t *testing.T) {
	tests := []struct {
		status OutcomeStatus
		want   TransferState
	}{
		{OutcomeCompleted, StateCompleted},
		{OutcomeCanceled, StateCanceled},
		{OutcomeFailed, StateFailed},
	}
	for _, tt := range tests {
		if got := StateFor(tt.status); got != tt.want {
			t.Errorf("StateFor(%v) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
