package tasks

import (
	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/logic/pathfind"
)

type stage int

const (
	stageSeek stage = iota
	stageApproach
	stageInteract
	stageJudge
)

// approachStage advances an interaction machine that is walking to pos. It
// returns the result to yield, or ok=false when the machine changed stage and
// should keep going this tick.
func approachStage(env *envstate.State, pos kitchen.Pos, st *stage) (Result, bool) {
	status, move := Approach(env, pos)
	switch status {
	case ApproachWorking:
		return working(move, "Approaching"), true
	case ApproachBlocked:
		*st = stageSeek
		return working(move, "Blocked by other agent"), true
	case ApproachUnreachable:
		*st = stageSeek
	case ApproachSuccess:
		*st = stageInteract
	}
	return Result{}, false
}

var (
	anyCutboard = envstate.Is(kitchen.Cutboard.String())
	emptyHands  = envstate.Is(kitchen.Nothing)
)

// Chop walks to a cutboard holding the chopping food and keeps interacting
// until it turns chopped. Hands must be empty.
type Chop struct {
	target string

	food  envstate.Filter
	begun bool
	stage stage
	pos   kitchen.Pos
}

// NewChop chops the given chopping food, e.g. "ChoppingOnion"; "" accepts any.
func NewChop(target string) *Chop { return &Chop{target: target} }

func (c *Chop) query() envstate.Query {
	return envstate.Query{Object: c.food, Facility: anyCutboard}
}

// CanBegin reports whether a matching cutboard is reachable and hands are free.
func (c *Chop) CanBegin(env *envstate.State) bool {
	if c.target == "" {
		c.food = envstate.Is(kitchen.ChoppingFood...)
	} else {
		if !envstate.Is(kitchen.ChoppingFood...).Match(c.target) {
			return false
		}
		c.food = envstate.Is(c.target)
	}
	if _, ok := env.NavigateTo(c.query(), false); !ok {
		return false
	}
	if !emptyHands.Match(env.Holding().Name()) {
		return false
	}
	c.begun = true
	return true
}

func (c *Chop) Step(env *envstate.State) Result {
	if !c.begun && !c.CanBegin(env) {
		return failed("Can't perform chop")
	}
	for i := 0; i < maxTransitions; i++ {
		switch c.stage {
		case stageSeek:
			pos, ok := env.NavigateTo(c.query(), false)
			if !ok {
				return failed("No reachable Cutboard")
			}
			if h := env.Holding(); !h.Empty() {
				return failed("Holding " + h.Name())
			}
			c.pos, c.stage = pos, stageApproach
		case stageApproach:
			if !env.IsMatching(c.pos, c.query()) {
				c.stage = stageSeek
				continue
			}
			if res, ok := approachStage(env, c.pos, &c.stage); ok {
				return res
			}
		default:
			chopped := envstate.Query{Object: envstate.Is(kitchen.ChoppedFood...), Facility: anyCutboard}
			if env.IsMatching(c.pos, chopped) {
				return succeeded("Successfully chop")
			}
			if !env.IsMatching(c.pos, c.query()) {
				return failed("No food being chopped on Cutboard")
			}
			status, move := Interact(env, c.pos)
			if status == InteractTooFar {
				c.stage = stageApproach
				continue
			}
			return working(move, "Chopping")
		}
	}
	return working(kitchen.Stay, msgReplanning)
}

// Putout walks to the nearest fire, searching inside composed objects, and
// sprays it until the fire atom is gone. The agent must hold an extinguisher.
type Putout struct {
	stage stage
	pos   kitchen.Pos
}

func NewPutout() *Putout { return &Putout{} }

var fireAnywhere = envstate.Query{Object: envstate.Is(kitchen.NameFire), Contents: true}

func (p *Putout) CanBegin(env *envstate.State) bool {
	if _, ok := env.NavigateTo(fireAnywhere, false); !ok {
		return false
	}
	return env.Holding().Name() == kitchen.NameExtinguisher
}

func (p *Putout) Step(env *envstate.State) Result {
	for i := 0; i < maxTransitions; i++ {
		switch p.stage {
		case stageSeek:
			pos, ok := env.NavigateTo(fireAnywhere, false)
			if !ok {
				return failed("No reachable fire")
			}
			if env.Holding().Name() != kitchen.NameExtinguisher {
				return failed("Not holding FireExtinguisher")
			}
			p.pos, p.stage = pos, stageApproach
		case stageApproach:
			if !env.IsMatching(p.pos, fireAnywhere) {
				p.stage = stageSeek
				continue
			}
			if res, ok := approachStage(env, p.pos, &p.stage); ok {
				return res
			}
		default:
			if !env.IsMatching(p.pos, fireAnywhere) {
				return succeeded("Successfully putout fire")
			}
			status, move := Interact(env, p.pos)
			if status == InteractTooFar {
				p.stage = stageApproach
				continue
			}
			return working(move, "Interacting")
		}
	}
	return working(kitchen.Stay, msgReplanning)
}

// Wait idles until a cell matches its query or the timeout elapses. While
// another agent stands next to it, it sidesteps onto free floor so a shared
// corridor is not blocked.
type Wait struct {
	query   envstate.Query
	hasGoal bool
	timeout int
	ticks   int
}

// DefaultWaitTimeout is the tick bound used when none is given.
const DefaultWaitTimeout = 5

// NewWait waits for q. A zero query waits out the timeout only.
func NewWait(q envstate.Query, timeout int) *Wait {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	return &Wait{
		query:   q,
		hasGoal: !q.Object.IsAny() || !q.Facility.IsAny(),
		timeout: timeout,
	}
}

func (w *Wait) Step(env *envstate.State) Result {
	if w.hasGoal {
		if _, ok := env.NavigateTo(w.query, false); ok {
			return succeeded("Completed")
		}
	}
	if w.ticks >= w.timeout {
		return succeeded("Completed")
	}
	w.ticks++

	self := env.Self().Pos
	crowded := false
	for _, a := range env.Others() {
		if self.Manhattan(a.Pos) <= 1 {
			crowded = true
			break
		}
	}
	if !crowded {
		return working(kitchen.Stay, "Waiting")
	}
	var moves []kitchen.Pos
	floor := envstate.Query{Facility: envstate.Is(kitchen.Floor.String())}
	for _, d := range pathfind.Neighbors {
		np := self.Add(d)
		if env.IsMatching(np, floor) && !env.OccupiedByOther(np) {
			moves = append(moves, d)
		}
	}
	if len(moves) == 0 {
		return working(kitchen.Stay, "Waiting")
	}
	return working(moves[env.Rand().Intn(len(moves))], "Waiting")
}

// Fail is a sentinel that fails immediately with its message.
type Fail struct{ Msg string }

func NewFail(msg string) *Fail { return &Fail{Msg: msg} }

func (f *Fail) Step(*envstate.State) Result { return failed(f.Msg) }

// Succeed is a sentinel that succeeds immediately with its message.
type Succeed struct{ Msg string }

func NewSuccess(msg string) *Succeed {
	if msg == "" {
		msg = "Success"
	}
	return &Succeed{Msg: msg}
}

func (s *Succeed) Step(*envstate.State) Result { return succeeded(s.Msg) }
