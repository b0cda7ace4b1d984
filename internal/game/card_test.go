package game

import "testing"

func ordinary(s Suit, v Value, owner string) Play {
	return Play{PlayerID: owner, Card: Card{Suit: s, Value: v, ID: "t-" + owner}, Mode: ModeNormal}
}

func special(mode Mode, owner string) Play {
	return Play{PlayerID: owner, Card: Card{Suit: SuitDenari, Value: ValAsso, ID: "t-" + owner}, Mode: mode}
}

func TestBeats_OrdinaryHierarchy(t *testing.T) {
	cases := []struct {
		name       string
		challenger Play
		best       Play
		want       bool
	}{
		{
			name:       "higher suit wins regardless of value",
			challenger: ordinary(SuitDenari, ValDue, "a"),
			best:       ordinary(SuitCoppe, ValRe, "b"),
			want:       true,
		},
		{
			name:       "lower suit loses regardless of value",
			challenger: ordinary(SuitBastoni, ValRe, "a"),
			best:       ordinary(SuitSpade, ValDue, "b"),
			want:       false,
		},
		{
			name:       "same suit compares value",
			challenger: ordinary(SuitCoppe, ValFante, "a"),
			best:       ordinary(SuitCoppe, ValSette, "b"),
			want:       true,
		},
		{
			name:       "same suit lower value loses",
			challenger: ordinary(SuitCoppe, ValTre, "a"),
			best:       ordinary(SuitCoppe, ValCavallo, "b"),
			want:       false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := beats(tc.challenger, tc.best); got != tc.want {
				t.Fatalf("beats: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBeats_SpecialCardAsymmetry(t *testing.T) {
	cases := []struct {
		name       string
		challenger Play
		best       Play
		want       bool
	}{
		{"special high beats the top ordinary card", special(ModeHigh, "a"), ordinary(SuitDenari, ValRe, "b"), true},
		{"special low loses to the bottom ordinary card", special(ModeLow, "a"), ordinary(SuitBastoni, ValDue, "b"), false},
		{"ordinary challenger beats a low special", ordinary(SuitBastoni, ValDue, "a"), special(ModeLow, "b"), true},
		{"ordinary challenger loses to a high special", ordinary(SuitDenari, ValRe, "a"), special(ModeHigh, "b"), false},
		{"special high beats a concurrent special low", special(ModeHigh, "a"), special(ModeLow, "b"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := beats(tc.challenger, tc.best); got != tc.want {
				t.Fatalf("beats: got %v, want %v", got, tc.want)
			}
		})
	}
}

// The comparator must be a strict total order over distinct ordinary
// cards: exactly one direction of every pair wins.
func TestBeats_StrictOverOrdinaryCards(t *testing.T) {
	var plays []Play
	for s := SuitBastoni; s <= SuitDenari; s++ {
		for v := ValAsso; v <= ValRe; v++ {
			if s == SuitDenari && v == ValAsso {
				continue
			}
			plays = append(plays, ordinary(s, v, "x"))
		}
	}
	for i := range plays {
		for j := range plays {
			if i == j {
				continue
			}
			a, b := beats(plays[i], plays[j]), beats(plays[j], plays[i])
			if a == b {
				t.Fatalf("not strict for %v vs %v: %v/%v", plays[i].Card, plays[j].Card, a, b)
			}
		}
	}
}

func TestResolvePlays_FoldsLeftToRight(t *testing.T) {
	plays := []Play{
		ordinary(SuitSpade, ValRe, "p1"),
		ordinary(SuitCoppe, ValDue, "p2"),
		special(ModeLow, "p3"),
		ordinary(SuitCoppe, ValSette, "p4"),
	}
	if got := resolvePlays(plays); got.PlayerID != "p4" {
		t.Fatalf("winner: got %s, want p4", got.PlayerID)
	}
}
