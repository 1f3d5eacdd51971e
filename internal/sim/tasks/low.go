package tasks

import (
	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/logic/pathfind"
)

// ApproachStatus is the outcome of one Approach step.
type ApproachStatus int

const (
	ApproachWorking ApproachStatus = iota
	ApproachSuccess
	// ApproachBlocked: the only route passes through another agent's cell.
	ApproachBlocked
	// ApproachUnreachable: no route exists even ignoring other agents.
	ApproachUnreachable
)

func (s ApproachStatus) String() string {
	switch s {
	case ApproachWorking:
		return "working"
	case ApproachSuccess:
		return "success"
	case ApproachBlocked:
		return "blocked"
	case ApproachUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Approach returns one move toward target. It succeeds, without moving, once
// the agent is adjacent. When the route is blocked by another agent it returns
// a random evasive move, possibly staying put, that never enters an occupied
// or blocked cell.
func Approach(env *envstate.State, target kitchen.Pos) (ApproachStatus, kitchen.Pos) {
	self := env.Self().Pos

	dist, path := pathfind.ShortestPathToAny(env.AgentGrid(), self, []kitchen.Pos{target})
	switch {
	case dist > 1:
		return ApproachWorking, path[0].Sub(self)
	case dist >= 0:
		return ApproachSuccess, kitchen.Stay
	}

	dist, path = pathfind.ShortestPathToAny(env.OpenGrid(), self, []kitchen.Pos{target})
	if dist < 0 {
		return ApproachUnreachable, kitchen.Stay
	}
	if dist == 0 {
		return ApproachSuccess, kitchen.Stay
	}
	if env.OccupiedByOther(path[0]) {
		return ApproachBlocked, evasiveMove(env)
	}
	return ApproachWorking, path[0].Sub(self)
}

// evasiveMove picks uniformly among staying put and every free walkable neighbor.
func evasiveMove(env *envstate.State) kitchen.Pos {
	self := env.Self().Pos
	moves := []kitchen.Pos{kitchen.Stay}
	for _, d := range pathfind.Neighbors {
		if env.AgentGrid().Open(self.Add(d)) {
			moves = append(moves, d)
		}
	}
	return moves[env.Rand().Intn(len(moves))]
}

// InteractStatus is the outcome of one Interact step.
type InteractStatus int

const (
	InteractSuccess InteractStatus = iota
	InteractTooFar
)

// Interact returns the directional move that interacts with target, which
// must be within one cell.
func Interact(env *envstate.State, target kitchen.Pos) (InteractStatus, kitchen.Pos) {
	self := env.Self().Pos
	if self.Manhattan(target) > 1 {
		return InteractTooFar, kitchen.Stay
	}
	return InteractSuccess, target.Sub(self)
}
