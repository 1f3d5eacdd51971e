package kitchen

import "testing"

func TestOrderUrgency(t *testing.T) {
	cases := []struct {
		name string
		o    Order
		want float64
	}{
		{"fresh", Order{Remaining: 60, Limit: 60}, 1},
		{"half", Order{Remaining: 30, Limit: 60}, 0.5},
		{"expired", Order{Remaining: 0, Limit: 60}, 0},
		{"untimed", Order{}, 1},
		{"negative limit", Order{Remaining: 5, Limit: -1}, 1},
	}
	for _, tc := range cases {
		if got := tc.o.Urgency(); got != tc.want {
			t.Fatalf("%s: urgency %v want %v", tc.name, got, tc.want)
		}
	}
}
