package tasks

import (
	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
)

// Cond constrains the held object and the target cell.
type Cond struct {
	Held   envstate.Filter
	Target envstate.Query
}

// Rule is one way to perform a single interaction: where to go and what to
// hold before it, and what must hold after it.
type Rule struct {
	Pre  Cond
	Post Cond
}

// Desc names an interaction in messages.
type Desc struct {
	Noun string
	Verb string
	Adj  string
}

// DoOnce walks to a cell satisfying the first applicable rule, interacts once,
// and verifies the rule's postcondition. Put, Drop, Deliver, Cook, Assemble and
// Pick are instances with their own rule tables.
type DoOnce struct {
	rules    []Rule
	desc     Desc
	object   envstate.Filter
	facility envstate.Filter

	rule  *Rule
	stage stage
	pos   kitchen.Pos
}

func newDoOnce(rules []Rule, desc Desc, object, facility envstate.Filter) *DoOnce {
	return &DoOnce{rules: rules, desc: desc, object: object, facility: facility}
}

// CanBegin selects the first rule, narrowed to the requested object and
// facility, whose target is reachable, whose held precondition matches and
// whose target object can merge with what is held.
func (d *DoOnce) CanBegin(env *envstate.State) bool {
	held := env.Holding()
	for _, r := range d.rules {
		var ok bool
		if r.Pre.Target.Facility, ok = r.Pre.Target.Facility.Narrow(d.facility); !ok {
			continue
		}
		if r.Pre.Target.Object, ok = r.Pre.Target.Object.Narrow(d.object); !ok {
			continue
		}
		pos, found := env.NavigateTo(r.Pre.Target, false)
		if !found {
			continue
		}
		if !r.Pre.Held.Match(held.Name()) {
			continue
		}
		if !kitchen.Mergeable(held, env.ObjectAt(pos)) {
			continue
		}
		d.rule = &r
		return true
	}
	return false
}

func (d *DoOnce) Step(env *envstate.State) Result {
	if d.rule == nil && !d.CanBegin(env) {
		return failed("Can't perform " + d.desc.Noun)
	}
	pre := d.rule.Pre
	for i := 0; i < maxTransitions; i++ {
		switch d.stage {
		case stageSeek:
			pos, ok := env.NavigateTo(pre.Target, false)
			if !ok {
				msg := "No matching " + d.desc.Noun + " point"
				if !d.facility.IsAny() {
					msg += " on " + d.facility.String()
				}
				if !d.object.IsAny() {
					msg += " with " + d.object.String()
				}
				return failed(msg)
			}
			if h := env.Holding(); !pre.Held.Match(h.Name()) {
				return failed(h.Name() + " is not " + d.desc.Adj)
			}
			d.pos, d.stage = pos, stageApproach
		case stageApproach:
			if !env.IsMatching(d.pos, pre.Target) {
				d.stage = stageSeek
				continue
			}
			if res, ok := approachStage(env, d.pos, &d.stage); ok {
				return res
			}
		case stageInteract:
			if !env.IsMatching(d.pos, pre.Target) {
				d.stage = stageSeek
				continue
			}
			status, move := Interact(env, d.pos)
			if status == InteractTooFar {
				d.stage = stageApproach
				continue
			}
			d.stage = stageJudge
			return working(move, "Interacting")
		default:
			post := d.rule.Post
			if post.Held.Match(env.Holding().Name()) && env.IsMatching(d.pos, post.Target) {
				return succeeded("Successfully " + d.desc.Verb)
			}
			msg := "Can't carry out " + d.desc.Verb
			if !d.facility.IsAny() {
				msg += " near " + d.facility.String()
			}
			return failed(msg)
		}
	}
	return working(kitchen.Stay, msgReplanning)
}
