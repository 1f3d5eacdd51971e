// Package tasks holds the atomic layers of the executor: single-step
// navigation primitives and the interaction state machines built on them.
package tasks

import (
	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
)

type Status int

const (
	Working Status = iota
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Working:
		return "WORKING"
	case Success:
		return "SUCCESS"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one Step: a status, the movement to issue this tick
// and a human-readable message.
type Result struct {
	Status Status
	Move   kitchen.Pos
	Msg    string
}

// Task is a stateful executor node advanced once per tick.
type Task interface {
	Step(env *envstate.State) Result
}

func working(move kitchen.Pos, msg string) Result {
	return Result{Status: Working, Move: move, Msg: msg}
}

func succeeded(msg string) Result { return Result{Status: Success, Msg: msg} }

func failed(msg string) Result { return Result{Status: Failed, Msg: msg} }

// maxTransitions bounds stage changes inside one Step.
const maxTransitions = 8

const msgReplanning = "Replanning"
