package kitchen

import "kitchencrew.ai/internal/sim/logic/pathfind"

// Pos is a grid coordinate.
type Pos = pathfind.Pos

// Stay is the no-op movement.
var Stay = Pos{}

// FacilityKind is the type of a grid square.
type FacilityKind uint8

const (
	Floor FacilityKind = iota + 1
	Counter
	Cutboard
	Delivery
	Bin
	Pot
	TomatoTile
	LettuceTile
	OnionTile
	PlateTile
)

var facilityNames = map[FacilityKind]string{
	Floor:       "Floor",
	Counter:     "Counter",
	Cutboard:    "Cutboard",
	Delivery:    "Delivery",
	Bin:         "Bin",
	Pot:         "Pot",
	TomatoTile:  "FreshTomatoTile",
	LettuceTile: "FreshLettuceTile",
	OnionTile:   "FreshOnionTile",
	PlateTile:   "PlateTile",
}

func (k FacilityKind) String() string {
	if n, ok := facilityNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Collidable reports whether agents are kept off the square. Only floor is walkable.
func (k FacilityKind) Collidable() bool { return k != Floor }

func ParseFacility(name string) (FacilityKind, bool) {
	for k, n := range facilityNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// TileFor returns the supply tile dispensing ingredient i.
func TileFor(i Ingredient) FacilityKind {
	switch i {
	case Tomato:
		return TomatoTile
	case Lettuce:
		return LettuceTile
	case Onion:
		return OnionTile
	}
	return 0
}

// Facility names grouped the way rule tables use them.
var (
	PuttableFacilities = []string{Counter.String(), Cutboard.String()}
	FoodTiles          = []string{TomatoTile.String(), LettuceTile.String(), OnionTile.String()}
)

// Facility is a located grid square.
type Facility struct {
	Kind FacilityKind
	Pos  Pos
}

// Item is an object lying on the map (not held). Rest is the time left before
// the object's next timed transition, such as cooked food charring.
type Item struct {
	Pos    Pos
	Object Object
	Rest   float64
}

// Agent is one cook.
type Agent struct {
	Name    string
	Pos     Pos
	Holding Object
	Action  Pos
}

// Order is a requested dish.
type Order struct {
	Target    Object
	Remaining float64
	Limit     float64
	Bonus     int
}

// Urgency is the remaining fraction of the order's time limit. Untimed
// orders never run down and report 1.
func (o Order) Urgency() float64 {
	if o.Limit <= 0 {
		return 1
	}
	return o.Remaining / o.Limit
}

// Snapshot is the raw per-tick world view an EnvState is built from.
// Self indexes Agents.
type Snapshot struct {
	Width      int
	Height     int
	Facilities []Facility
	Items      []Item
	Agents     []Agent
	Self       int
	Orders     []Order
	Time       float64
}
