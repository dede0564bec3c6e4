package matching

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Manchester United", "manchesterunited"},
		{"  Real   Madrid  ", "realmadrid"},
		{"FC\tBarcelona\n", "fcbarcelona"},
		{"울산 현대", "울산현대"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", " a ", "Manchester United", "K.S.K. Heist", "전북 현대 모터스", " Ulsan HD"}
	for _, s := range inputs {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestIsEquivalent_Reflexive(t *testing.T) {
	inputs := []string{"", "a", "Real Madrid", "울산 현대", "  x  y  "}
	for _, s := range inputs {
		if !IsEquivalent(s, s, DefaultThreshold) {
			t.Errorf("IsEquivalent(%q, %q) = false", s, s)
		}
	}
}

func TestIsEquivalent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"", "", true},
		{"Manchester United", "manchester united", true},
		{"Manchester United", "ManchesterUnited", true},
		{"Tottenham Hotspur", "Tottenham", true}, // partial ratio finds the substring
		{"Real Madrid", "Barcelona", false},
		{"Arsenal", "", false},
		{"Ulsan HD", "Ulsan Hyundai", true}, // "ulsanhy" window is one edit from "ulsanhd"
		{"Arsenal", "Chelsea", false},
	}
	for _, tt := range tests {
		if got := IsEquivalent(tt.a, tt.b, DefaultThreshold); got != tt.want {
			t.Errorf("IsEquivalent(%q, %q) = %v, want %v (score %.0f)", tt.a, tt.b, got, tt.want, Score(tt.a, tt.b))
		}
	}
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Real Madrid", "real madrid cf"},
		{"Barcelona", "Barca"},
		{"Tottenham", "Tottenham Hotspur"},
		{"abc", "xbcx"},
		{"", "Chelsea"},
		{"전북", "전북 현대"},
	}
	for _, p := range pairs {
		if ab, ba := Score(p[0], p[1]), Score(p[1], p[0]); ab != ba {
			t.Errorf("Score(%q,%q)=%v but Score(%q,%q)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestScore_Bounds(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Chelsea", "chelsea", 100},
		{"", "", 100},
		{"", "Chelsea", 0},
		{"abcd", "wxyz", 0},
	}
	for _, tt := range tests {
		if got := Score(tt.a, tt.b); got != tt.want {
			t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"kitten", "sitting", 57}, // distance 3 over 7
		{"abcd", "abce", 75},
		{"same", "same", 100},
		{"", "x", 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); got != tt.want {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"tottenham", "tottenhamhotspur", 100},
		{"hotspur", "tottenhamhotspur", 100},
		{"abc", "xxabdxx", 67},
		{"", "abc", 0},
		{"abcd", "abce", 75},
	}
	for _, tt := range tests {
		if got := PartialRatio(tt.a, tt.b); got != tt.want {
			t.Errorf("PartialRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScorer_DefaultThreshold(t *testing.T) {
	s := NewScorer(0)
	if s.Threshold != DefaultThreshold {
		t.Errorf("threshold = %d, want %d", s.Threshold, DefaultThreshold)
	}
	if !s.IsEquivalent("Liverpool", "liverpool ") {
		t.Errorf("expected exact-path equivalence")
	}
}
