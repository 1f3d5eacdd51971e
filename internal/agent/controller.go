// Package agent drives one cook. A Controller holds the goals requested for
// the agent, starts the first one that can begin (following prerequisites
// when the requested goal cannot), and turns the active goal into one move
// per tick.
package agent

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
)

// Outcome is the state of a history entry.
type Outcome string

const (
	Ongoing     Outcome = "Ongoing"
	Completed   Outcome = "Completed"
	Failed      Outcome = "Failed"
	Interrupted Outcome = "Interrupted"
	Skipped     Outcome = "Skipped"
)

// Entry records one goal the controller started or gave up on. Requested is
// the queued goal the entry served; it differs from Goal when a prerequisite
// ran in its place.
type Entry struct {
	Goal      goals.ID
	Requested goals.ID
	Outcome   Outcome
	Msg       string
	Started   int
	Finished  int
}

// TraceRecord is one controller decision, written once per Step.
type TraceRecord struct {
	Controller string  `json:"controller"`
	Agent      string  `json:"agent"`
	Step       int     `json:"step"`
	Time       float64 `json:"time"`
	Goal       string  `json:"goal,omitempty"`
	Status     string  `json:"status"`
	Move       [2]int  `json:"move"`
	Msg        string  `json:"msg,omitempty"`
}

// Tracer receives trace records. Errors are logged and otherwise ignored.
type Tracer interface {
	Trace(TraceRecord) error
}

const (
	// maxSelect bounds goal starts and instant completions inside one Step.
	maxSelect = 10

	// DefaultPrereqDepth bounds how far a prerequisite chain is followed.
	DefaultPrereqDepth = 6
)

type Options struct {
	Logger      *zap.Logger
	Tracer      Tracer
	Goals       goals.Config
	PrereqDepth int
}

type Controller struct {
	id       string
	log      *zap.Logger
	tracer   Tracer
	cfg      goals.Config
	maxDepth int

	mu     sync.Mutex
	queue  []goals.ID
	active goals.Goal

	// onBehalf is the queue head a running prerequisite serves, or "" when
	// the active goal was taken off the queue itself.
	onBehalf       goals.ID
	behalfFailures int
	history        []Entry
	steps          int
	last           TraceRecord
}

func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	depth := opts.PrereqDepth
	if depth <= 0 {
		depth = DefaultPrereqDepth
	}
	id := uuid.NewString()
	return &Controller{
		id:       id,
		log:      log.With(zap.String("controller", id)),
		tracer:   opts.Tracer,
		cfg:      opts.Goals.WithDefaults(),
		maxDepth: depth,
	}
}

func (c *Controller) ID() string { return c.id }

// Enqueue appends goals to the request queue.
func (c *Controller) Enqueue(ids ...goals.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, ids...)
}

// Replace interrupts the active goal and swaps in a new request queue.
func (c *Controller) Replace(ids ...goals.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.finishLocked(Interrupted, "")
		c.log.Info("goal interrupted", zap.String("goal", string(c.history[len(c.history)-1].Goal)))
	}
	c.queue = append([]goals.ID(nil), ids...)
	c.resetBehalf()
}

// Idle reports that nothing is running or queued.
func (c *Controller) Idle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == nil && len(c.queue) == 0
}

// Active returns the running goal's id, or "".
func (c *Controller) Active() goals.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.ID()
}

func (c *Controller) Queue() []goals.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]goals.ID(nil), c.queue...)
}

func (c *Controller) History() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.history...)
}

// Step advances the active goal by one tick and returns the agent's move.
// A failed goal costs the tick: the agent stays and the next goal starts on
// the following Step.
func (c *Controller) Step(env *envstate.State) kitchen.Pos {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps++

	for i := 0; i < maxSelect; i++ {
		if c.active == nil {
			if len(c.queue) == 0 {
				break
			}
			c.selectLocked(env)
			continue
		}
		res := c.active.Step(env)
		switch res.Status {
		case tasks.Working:
			c.history[len(c.history)-1].Msg = res.Msg
			c.traceLocked(env, res)
			return res.Move
		case tasks.Failed:
			res.Move = kitchen.Stay
			c.traceLocked(env, res)
			c.failLocked(res.Msg)
			return kitchen.Stay
		default:
			c.traceLocked(env, res)
			c.log.Debug("goal completed", zap.String("goal", string(c.active.ID())))
			c.finishLocked(Completed, res.Msg)
		}
	}
	c.traceLocked(env, tasks.Result{Status: tasks.Working, Move: kitchen.Stay, Msg: "Idle"})
	return kitchen.Stay
}

// selectLocked starts the queue head, or the first feasible goal along its
// prerequisite chain. A head with no feasible chain is dropped.
func (c *Controller) selectLocked(env *envstate.State) {
	head := c.queue[0]
	g, err := goals.New(head, c.cfg)
	if err != nil {
		c.log.Warn("dropping goal", zap.String("goal", string(head)), zap.Error(err))
		c.skipHeadLocked(err.Error())
		return
	}
	f := g.CanBegin(env)
	if f.OK {
		c.queue = c.queue[1:]
		c.resetBehalf()
		c.startLocked(g, head, "")
		return
	}

	seen := map[goals.ID]bool{head: true}
	for depth := 0; !f.OK && len(f.Prereqs) > 0 && depth < c.maxDepth; depth++ {
		next := f.Prereqs[0]
		if seen[next] {
			break
		}
		seen[next] = true
		if g, err = goals.New(next, c.cfg); err != nil {
			break
		}
		f = g.CanBegin(env)
	}
	if f.OK {
		c.startLocked(g, head, head)
		return
	}
	c.log.Info("goal cannot begin", zap.String("goal", string(head)), zap.String("reason", f.Reason))
	c.skipHeadLocked(f.Reason)
}

func (c *Controller) startLocked(g goals.Goal, requested, behalf goals.ID) {
	if behalf != c.onBehalf {
		c.behalfFailures = 0
	}
	c.active = g
	c.onBehalf = behalf
	c.history = append(c.history, Entry{
		Goal:      g.ID(),
		Requested: requested,
		Outcome:   Ongoing,
		Msg:       "Initiated",
		Started:   c.steps,
	})
	c.log.Info("goal started", zap.String("goal", string(g.ID())), zap.String("requested", string(requested)))
}

func (c *Controller) finishLocked(o Outcome, msg string) {
	e := &c.history[len(c.history)-1]
	e.Outcome = o
	e.Msg = msg
	e.Finished = c.steps
	c.active = nil
}

// failLocked ends the active goal. A prerequisite that keeps failing on
// behalf of the same head eventually drops the head too.
func (c *Controller) failLocked(msg string) {
	c.log.Info("goal failed", zap.String("goal", string(c.active.ID())), zap.String("msg", msg))
	c.finishLocked(Failed, msg)
	if c.onBehalf == "" {
		return
	}
	c.behalfFailures++
	if c.behalfFailures >= c.cfg.MaxFailures && len(c.queue) > 0 && c.queue[0] == c.onBehalf {
		c.skipHeadLocked("Prerequisites keep failing: " + msg)
	}
}

func (c *Controller) skipHeadLocked(reason string) {
	head := c.queue[0]
	c.queue = c.queue[1:]
	c.history = append(c.history, Entry{
		Goal:      head,
		Requested: head,
		Outcome:   Skipped,
		Msg:       reason,
		Started:   c.steps,
		Finished:  c.steps,
	})
	c.resetBehalf()
}

func (c *Controller) resetBehalf() {
	c.onBehalf = ""
	c.behalfFailures = 0
}

// Last returns the record of the most recent Step.
func (c *Controller) Last() TraceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Controller) traceLocked(env *envstate.State, res tasks.Result) {
	rec := TraceRecord{
		Controller: c.id,
		Agent:      env.Self().Name,
		Step:       c.steps,
		Time:       env.Time(),
		Status:     res.Status.String(),
		Move:       [2]int{res.Move.X, res.Move.Y},
		Msg:        res.Msg,
	}
	if c.active != nil {
		rec.Goal = string(c.active.ID())
	}
	c.last = rec
	if c.tracer == nil {
		return
	}
	if err := c.tracer.Trace(rec); err != nil {
		c.log.Warn("trace write failed", zap.Error(err))
	}
}
