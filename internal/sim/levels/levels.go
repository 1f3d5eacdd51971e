// Package levels loads kitchen layouts. A level is a YAML document whose map
// rows use a one-character legend:
//
//	' ' floor   '-' counter   '/' cutboard   '*' delivery   'B' bin   'U' pot
//	'T' 'L' 'O' tomato, lettuce, onion supply   'P' plate supply
//	't' 'l' 'o' 'p' 'f' counter holding a fresh tomato, lettuce, onion, a plate
//	or a fire extinguisher
//	'1'..'9' floor with an agent spawn
package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"kitchencrew.ai/internal/sim/kitchen"
)

var ErrBadLevel = errors.New("bad level")

// Level is the on-disk form.
type Level struct {
	Name    string   `yaml:"name"`
	Map     []string `yaml:"map"`
	Recipes []string `yaml:"recipes"`
	Agents  [][2]int `yaml:"agents"`
}

// Layout is a parsed level ready to seed a world.
type Layout struct {
	Name       string
	Width      int
	Height     int
	Facilities []kitchen.Facility
	Items      []kitchen.Item
	Spawns     []kitchen.Pos
	Recipes    []string
}

var legend = map[rune]kitchen.FacilityKind{
	' ': kitchen.Floor,
	'.': kitchen.Floor,
	'-': kitchen.Counter,
	'/': kitchen.Cutboard,
	'*': kitchen.Delivery,
	'B': kitchen.Bin,
	'U': kitchen.Pot,
	'T': kitchen.TomatoTile,
	'L': kitchen.LettuceTile,
	'O': kitchen.OnionTile,
	'P': kitchen.PlateTile,
}

var counterItems = map[rune]kitchen.Atom{
	't': kitchen.Food(kitchen.Tomato, kitchen.Fresh),
	'l': kitchen.Food(kitchen.Lettuce, kitchen.Fresh),
	'o': kitchen.Food(kitchen.Onion, kitchen.Fresh),
	'p': kitchen.Plate,
	'f': kitchen.Extinguisher,
}

// Load reads and builds a level file.
func Load(path string) (Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	l, err := Parse(raw)
	if err != nil {
		return Layout{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return l, nil
}

// Parse decodes YAML level data and builds it.
func Parse(raw []byte) (Layout, error) {
	var lv Level
	if err := yaml.Unmarshal(raw, &lv); err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrBadLevel, err)
	}
	return lv.Build()
}

// Build converts the map rows into facilities, items and spawns. Explicit
// agent positions come after spawns drawn on the map.
func (lv Level) Build() (Layout, error) {
	out, err := FromRows(lv.Map)
	if err != nil {
		return Layout{}, err
	}
	out.Name = lv.Name
	out.Recipes = append([]string(nil), lv.Recipes...)
	for _, a := range lv.Agents {
		p := kitchen.Pos{X: a[0], Y: a[1]}
		if p.X < 0 || p.Y < 0 || p.X >= out.Width || p.Y >= out.Height {
			return Layout{}, fmt.Errorf("%w: agent %v outside map", ErrBadLevel, p)
		}
		out.Spawns = append(out.Spawns, p)
	}
	return out, nil
}

// FromRows builds a layout from map rows alone. Row y is the y coordinate,
// column x the x coordinate.
func FromRows(rows []string) (Layout, error) {
	if len(rows) == 0 {
		return Layout{}, fmt.Errorf("%w: empty map", ErrBadLevel)
	}
	var out Layout
	out.Height = len(rows)
	type spawn struct {
		n int
		p kitchen.Pos
	}
	var spawns []spawn
	for y, row := range rows {
		row = strings.TrimRight(row, "\r")
		if n := len([]rune(row)); n > out.Width {
			out.Width = n
		}
		for x, r := range []rune(row) {
			p := kitchen.Pos{X: x, Y: y}
			kind, isFacility := legend[r]
			item, isItem := counterItems[r]
			switch {
			case isFacility:
				out.Facilities = append(out.Facilities, kitchen.Facility{Kind: kind, Pos: p})
			case isItem:
				out.Facilities = append(out.Facilities, kitchen.Facility{Kind: kitchen.Counter, Pos: p})
				out.Items = append(out.Items, kitchen.Item{Pos: p, Object: kitchen.NewObject(item)})
			case r >= '1' && r <= '9':
				out.Facilities = append(out.Facilities, kitchen.Facility{Kind: kitchen.Floor, Pos: p})
				spawns = append(spawns, spawn{n: int(r - '0'), p: p})
			default:
				return Layout{}, fmt.Errorf("%w: unknown tile %q at %v", ErrBadLevel, r, p)
			}
		}
	}
	sort.Slice(spawns, func(i, j int) bool { return spawns[i].n < spawns[j].n })
	for _, s := range spawns {
		out.Spawns = append(out.Spawns, s.p)
	}
	return out, nil
}

// MustRows is FromRows for fixtures.
func MustRows(rows ...string) Layout {
	l, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return l
}

// Snapshot seeds a snapshot from the layout with one empty-handed agent per
// spawn, acting as agent self.
func (l Layout) Snapshot(self int) kitchen.Snapshot {
	s := kitchen.Snapshot{
		Width:      l.Width,
		Height:     l.Height,
		Facilities: append([]kitchen.Facility(nil), l.Facilities...),
		Items:      append([]kitchen.Item(nil), l.Items...),
		Self:       self,
	}
	for i, p := range l.Spawns {
		s.Agents = append(s.Agents, kitchen.Agent{Name: fmt.Sprintf("agent-%d", i+1), Pos: p})
	}
	return s
}
