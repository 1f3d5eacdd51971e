package kitchen

import (
	"fmt"
	"sort"
	"strings"
)

// Nothing is the name of an absent object (and of a cell without a facility).
const Nothing = "Nothing"

// MaxAtoms bounds the size of a composed object.
const MaxAtoms = 8

// Key is the order-independent identity of a composed object: atom tags sorted
// ascending, zero-padded. Two objects are the same composition iff their keys
// are equal.
type Key [MaxAtoms]uint8

// Object is an immutable composed object. The zero value is "no object".
type Object struct {
	key Key
}

// NewObject composes atoms into an object. It panics when more than MaxAtoms
// atoms are given or an atom is not part of the vocabulary.
func NewObject(atoms ...Atom) Object {
	if len(atoms) > MaxAtoms {
		panic(fmt.Sprintf("kitchen: object holds %d atoms, max %d", len(atoms), MaxAtoms))
	}
	var o Object
	tags := make([]int, 0, len(atoms))
	for _, a := range atoms {
		t, ok := tagOf[a]
		if !ok {
			panic(fmt.Sprintf("kitchen: unknown atom %+v", a))
		}
		tags = append(tags, int(t))
	}
	sort.Ints(tags)
	for i, t := range tags {
		o.key[i] = uint8(t)
	}
	return o
}

// ParseObject parses a canonical name such as "ChoppedLettuce-Plate".
// "Nothing" and "" parse to the empty object.
func ParseObject(name string) (Object, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == Nothing {
		return Object{}, nil
	}
	parts := strings.Split(name, "-")
	if len(parts) > MaxAtoms {
		return Object{}, fmt.Errorf("object %q: too many atoms", name)
	}
	atoms := make([]Atom, 0, len(parts))
	for _, p := range parts {
		a, ok := ParseAtom(p)
		if !ok {
			return Object{}, fmt.Errorf("object %q: unknown atom %q", name, p)
		}
		atoms = append(atoms, a)
	}
	return NewObject(atoms...), nil
}

// MustParseObject is ParseObject for static vocabulary.
func MustParseObject(name string) Object {
	o, err := ParseObject(name)
	if err != nil {
		panic(err)
	}
	return o
}

func (o Object) Key() Key { return o.key }

func (o Object) Empty() bool { return o.key[0] == 0 }

func (o Object) Equal(b Object) bool { return o.key == b.key }

func (o Object) Len() int {
	n := 0
	for n < MaxAtoms && o.key[n] != 0 {
		n++
	}
	return n
}

// Atoms returns the atoms in canonical order.
func (o Object) Atoms() []Atom {
	out := make([]Atom, 0, MaxAtoms)
	for _, t := range o.key {
		if t == 0 {
			break
		}
		out = append(out, atomOf[t])
	}
	return out
}

// Name is the canonical full name, or "Nothing" for the empty object.
func (o Object) Name() string {
	if o.Empty() {
		return Nothing
	}
	atoms := o.Atoms()
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = a.Name()
	}
	return strings.Join(parts, "-")
}

func (o Object) String() string { return o.Name() }

// Names returns the full name, followed by every atom name when contents is set.
func (o Object) Names(contents bool) []string {
	out := []string{o.Name()}
	if contents {
		for _, a := range o.Atoms() {
			out = append(out, a.Name())
		}
	}
	return out
}

func (o Object) Has(a Atom) bool {
	t := tagOf[a]
	for _, k := range o.key {
		if k == t && k != 0 {
			return true
		}
	}
	return false
}

func (o Object) Count(kind AtomKind) int {
	n := 0
	for _, a := range o.Atoms() {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

func (o Object) OnFire() bool { return o.Count(KindFire) > 0 }

// IsCooked reports whether every atom is cooked or charred food, or fire.
func (o Object) IsCooked() bool {
	if o.Empty() {
		return false
	}
	for _, a := range o.Atoms() {
		switch {
		case a.Kind == KindFire:
		case a.Kind == KindFood && (a.State == Cooked || a.State == Charred):
		default:
			return false
		}
	}
	return true
}

// With returns o with atoms added.
func (o Object) With(atoms ...Atom) Object {
	return NewObject(append(o.Atoms(), atoms...)...)
}

// Without returns o with every atom of the given kind removed.
func (o Object) Without(kind AtomKind) Object {
	var keep []Atom
	for _, a := range o.Atoms() {
		if a.Kind != kind {
			keep = append(keep, a)
		}
	}
	return NewObject(keep...)
}

// Merge combines two objects. Callers check Mergeable first.
func (o Object) Merge(b Object) Object {
	return NewObject(append(o.Atoms(), b.Atoms()...)...)
}

// Restate returns o with every food atom moved to state s.
func (o Object) Restate(s FoodState) Object {
	atoms := o.Atoms()
	for i := range atoms {
		if atoms[i].Kind == KindFood {
			atoms[i].State = s
		}
	}
	return NewObject(atoms...)
}

// Ingredients returns the food kinds in o, in canonical order.
func (o Object) Ingredients() []Ingredient {
	var out []Ingredient
	for _, a := range o.Atoms() {
		if a.Kind == KindFood {
			out = append(out, a.Food)
		}
	}
	return out
}

// salads is the closed vocabulary of valid plate-less merge results.
var salads = buildSalads()

func buildSalads() map[Key]bool {
	out := map[Key]bool{}
	for _, n := range Combos(Chopped, false) {
		out[MustParseObject(n).key] = true
	}
	return out
}

// Mergeable reports whether a and b may combine. The empty object merges with
// anything, a cooked object merges with a lone plate, a merge never holds two
// plates, and otherwise the plate-less result must be a chopped salad.
func Mergeable(a, b Object) bool {
	if a.Empty() || b.Empty() {
		return true
	}
	if a.IsCooked() && b.Len() == 1 && b.Has(Plate) {
		return true
	}
	if b.IsCooked() && a.Len() == 1 && a.Has(Plate) {
		return true
	}
	if a.Count(KindPlate)+b.Count(KindPlate) > 1 {
		return false
	}
	if a.Len()+b.Len() > MaxAtoms {
		return false
	}
	merged := a.Merge(b).Without(KindPlate)
	return salads[merged.key]
}
