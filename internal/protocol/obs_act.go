package protocol

import (
	"fmt"

	"kitchencrew.ai/internal/sim/kitchen"
)

// MaxSide bounds each map dimension an observation may declare.
const MaxSide = 256

// OBS (client -> server): the full kitchen as the cook sees it this tick.
// Positions are [x, y] with y growing downwards.
type ObsMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Tick            uint64  `json:"tick"`
	Time            float64 `json:"time"`

	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Self       int           `json:"self"`
	Facilities []FacilityObs `json:"facilities"`
	Items      []ItemObs     `json:"items"`
	Agents     []AgentObs    `json:"agents"`
	Orders     []OrderObs    `json:"orders"`
}

type FacilityObs struct {
	Kind string `json:"kind"`
	Pos  [2]int `json:"pos"`
}

type ItemObs struct {
	Pos    [2]int  `json:"pos"`
	Object string  `json:"object"`
	Rest   float64 `json:"rest,omitempty"`
}

type AgentObs struct {
	Name    string `json:"name"`
	Pos     [2]int `json:"pos"`
	Holding string `json:"holding,omitempty"`
	Action  [2]int `json:"action"`
}

type OrderObs struct {
	Target    string  `json:"target"`
	Remaining float64 `json:"remaining"`
	Limit     float64 `json:"limit"`
	Bonus     int     `json:"bonus"`
}

// ACT (server -> client): the cook's move for the tick, plus what drove it.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Move            [2]int `json:"move"`
	Goal            string `json:"goal,omitempty"`
	Status          string `json:"status,omitempty"`
	Msg             string `json:"msg,omitempty"`
}

func pos(p [2]int) kitchen.Pos { return kitchen.Pos{X: p[0], Y: p[1]} }

func wirePos(p kitchen.Pos) [2]int { return [2]int{p.X, p.Y} }

// ObsFromSnapshot renders a snapshot for the wire.
func ObsFromSnapshot(tick uint64, s kitchen.Snapshot) ObsMsg {
	m := ObsMsg{
		Type:            TypeObs,
		ProtocolVersion: Version,
		Tick:            tick,
		Time:            s.Time,
		Width:           s.Width,
		Height:          s.Height,
		Self:            s.Self,
		Facilities:      make([]FacilityObs, 0, len(s.Facilities)),
		Items:           make([]ItemObs, 0, len(s.Items)),
		Agents:          make([]AgentObs, 0, len(s.Agents)),
		Orders:          make([]OrderObs, 0, len(s.Orders)),
	}
	for _, f := range s.Facilities {
		m.Facilities = append(m.Facilities, FacilityObs{Kind: f.Kind.String(), Pos: wirePos(f.Pos)})
	}
	for _, it := range s.Items {
		m.Items = append(m.Items, ItemObs{Pos: wirePos(it.Pos), Object: it.Object.Name(), Rest: it.Rest})
	}
	for _, a := range s.Agents {
		ao := AgentObs{Name: a.Name, Pos: wirePos(a.Pos), Action: wirePos(a.Action)}
		if !a.Holding.Empty() {
			ao.Holding = a.Holding.Name()
		}
		m.Agents = append(m.Agents, ao)
	}
	for _, o := range s.Orders {
		m.Orders = append(m.Orders, OrderObs{Target: o.Target.Name(), Remaining: o.Remaining, Limit: o.Limit, Bonus: o.Bonus})
	}
	return m
}

// Snapshot validates the observation and converts it for the executor.
func (m ObsMsg) Snapshot() (kitchen.Snapshot, error) {
	if m.Width <= 0 || m.Height <= 0 || m.Width > MaxSide || m.Height > MaxSide {
		return kitchen.Snapshot{}, fmt.Errorf("bad size %dx%d", m.Width, m.Height)
	}
	if m.Self < 0 || m.Self >= len(m.Agents) {
		return kitchen.Snapshot{}, fmt.Errorf("self %d out of %d agents", m.Self, len(m.Agents))
	}
	inside := func(p [2]int) bool {
		return p[0] >= 0 && p[1] >= 0 && p[0] < m.Width && p[1] < m.Height
	}
	s := kitchen.Snapshot{Width: m.Width, Height: m.Height, Self: m.Self, Time: m.Time}

	for i, f := range m.Facilities {
		k, ok := kitchen.ParseFacility(f.Kind)
		if !ok {
			return kitchen.Snapshot{}, fmt.Errorf("facility %d: unknown kind %q", i, f.Kind)
		}
		if !inside(f.Pos) {
			return kitchen.Snapshot{}, fmt.Errorf("facility %d: %v outside map", i, f.Pos)
		}
		s.Facilities = append(s.Facilities, kitchen.Facility{Kind: k, Pos: pos(f.Pos)})
	}
	for i, it := range m.Items {
		o, err := kitchen.ParseObject(it.Object)
		if err != nil {
			return kitchen.Snapshot{}, fmt.Errorf("item %d: %w", i, err)
		}
		if !inside(it.Pos) {
			return kitchen.Snapshot{}, fmt.Errorf("item %d: %v outside map", i, it.Pos)
		}
		s.Items = append(s.Items, kitchen.Item{Pos: pos(it.Pos), Object: o, Rest: it.Rest})
	}
	for i, a := range m.Agents {
		o, err := kitchen.ParseObject(a.Holding)
		if err != nil {
			return kitchen.Snapshot{}, fmt.Errorf("agent %d: %w", i, err)
		}
		if !inside(a.Pos) {
			return kitchen.Snapshot{}, fmt.Errorf("agent %d: %v outside map", i, a.Pos)
		}
		s.Agents = append(s.Agents, kitchen.Agent{Name: a.Name, Pos: pos(a.Pos), Holding: o, Action: pos(a.Action)})
	}
	for i, o := range m.Orders {
		target, err := kitchen.ParseObject(o.Target)
		if err != nil {
			return kitchen.Snapshot{}, fmt.Errorf("order %d: %w", i, err)
		}
		s.Orders = append(s.Orders, kitchen.Order{Target: target, Remaining: o.Remaining, Limit: o.Limit, Bonus: o.Bonus})
	}
	return s, nil
}
