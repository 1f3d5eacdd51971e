package kitchen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObjectName_OrderIndependent(t *testing.T) {
	a := NewObject(Food(Onion, Chopped), Plate, Food(Lettuce, Chopped))
	b := NewObject(Plate, Food(Lettuce, Chopped), Food(Onion, Chopped))
	if !a.Equal(b) {
		t.Fatalf("expected equal keys: %v vs %v", a.Key(), b.Key())
	}
	if got, want := a.Name(), "ChoppedLettuce-ChoppedOnion-Plate"; got != want {
		t.Fatalf("name: got %q want %q", got, want)
	}
}

func TestParseObject_RoundTrip(t *testing.T) {
	for _, name := range Concat(AssembleChoppedPlate, AssembleCharred, FreshFood, []string{NamePlate, NameExtinguisher}) {
		o, err := ParseObject(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if o.Name() != name {
			t.Fatalf("round trip: got %q want %q", o.Name(), name)
		}
	}
	if o, err := ParseObject("Nothing"); err != nil || !o.Empty() {
		t.Fatalf("Nothing should parse to the empty object, got %v %v", o, err)
	}
	if _, err := ParseObject("ChoppedBanana"); err == nil {
		t.Fatalf("expected error for unknown atom")
	}
}

func TestObjectNames_Contents(t *testing.T) {
	o := MustParseObject("CharredOnion-Fire")
	got := o.Names(true)
	want := []string{"CharredOnion-Fire", "CharredOnion", "Fire"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Nothing"}, Object{}.Names(true)); diff != "" {
		t.Fatalf("empty names mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeable(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Nothing", "Plate", true},
		{"ChoppedLettuce", "Nothing", true},
		{"ChoppedLettuce", "ChoppedOnion", true},
		{"ChoppedLettuce-Plate", "ChoppedOnion", true},
		{"ChoppedLettuce-ChoppedOnion", "ChoppedTomato", true},
		{"ChoppedLettuce", "ChoppedLettuce", false},
		{"FreshLettuce", "ChoppedOnion", false},
		{"Plate", "Plate", false},
		{"ChoppedLettuce-Plate", "ChoppedOnion-Plate", false},
		{"CookedLettuce-CookedOnion", "Plate", true},
		{"CharredOnion-Fire", "Plate", true},
		{"CookingOnion", "Plate", false},
		{"FireExtinguisher", "ChoppedOnion", false},
	}
	for _, tc := range cases {
		a, b := MustParseObject(tc.a), MustParseObject(tc.b)
		if got := Mergeable(a, b); got != tc.want {
			t.Fatalf("Mergeable(%s, %s): got %v want %v", tc.a, tc.b, got, tc.want)
		}
		if got := Mergeable(b, a); got != tc.want {
			t.Fatalf("Mergeable(%s, %s) not symmetric", tc.b, tc.a)
		}
	}
}

func TestMergeable_SymmetricOverVocabulary(t *testing.T) {
	names := Concat([]string{Nothing, NamePlate, NameExtinguisher}, FreshFood, ChoppingFood,
		AssembleChopped, AssembleChoppedPlate, AssembleCooked, AssembleCharredPlate)
	for _, an := range names {
		for _, bn := range names {
			a, b := MustParseObject(an), MustParseObject(bn)
			if Mergeable(a, b) != Mergeable(b, a) {
				t.Fatalf("asymmetric: %s / %s", an, bn)
			}
			if !a.Empty() && !b.Empty() && a.Count(KindPlate)+b.Count(KindPlate) > 1 && Mergeable(a, b) {
				t.Fatalf("two plates merged: %s / %s", an, bn)
			}
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := [][2]string{
		{"Nothing", "Nothing"},
		{"FireExtinguisher", "Fire Extinguisher"},
		{"ChoppedLettuce", "Chopped Lettuce"},
		{"ChoppedLettuce-ChoppedOnion", "Alice Ingredients"},
		{"ChoppedOnion-ChoppedTomato-Plate", "Cathy Ingredients with Plate"},
		{"CookedLettuce-CookedTomato-Plate", "Plated Bob Soup"},
		{"CharredLettuce-CharredOnion-CharredTomato-Plate", "Plated Charred David Soup"},
		{"CookingLettuce-CookingOnion", "Alice Soup"},
	}
	for _, tc := range cases {
		name, want := tc[0], tc[1]
		if got := DisplayNameOf(name); got != want {
			t.Fatalf("DisplayNameOf(%q): got %q want %q", name, got, want)
		}
	}
}

func TestLookupDish(t *testing.T) {
	d, ok := LookupDish("Bob Soup")
	if !ok || d.Name != "Bob" {
		t.Fatalf("LookupDish: got %v %v", d, ok)
	}
	if got, want := d.Key(Cooked, true), "CookedLettuce-CookedTomato-Plate"; got != want {
		t.Fatalf("key: got %q want %q", got, want)
	}
	if _, ok := LookupDish("Eve Soup"); ok {
		t.Fatalf("unexpected dish")
	}
}

func TestStripState(t *testing.T) {
	if got := StripState("ChoppedLettuce"); got != "Lettuce" {
		t.Fatalf("got %q", got)
	}
}
