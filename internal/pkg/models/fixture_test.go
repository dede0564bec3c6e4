package models

import "testing"

func TestRawFixture_HasTeams(t *testing.T) {
	tests := []struct {
		home, away string
		want       bool
	}{
		{"Arsenal", "Chelsea", true},
		{" 울산 ", "전북", true},
		{"", "Chelsea", false},
		{"Arsenal", " \t ", false},
		{" ", "Chelsea", false},
	}

	for _, tt := range tests {
		f := RawFixture{HomeTeam: tt.home, AwayTeam: tt.away}
		if got := f.HasTeams(); got != tt.want {
			t.Errorf("HasTeams(%q, %q) = %v, want %v", tt.home, tt.away, got, tt.want)
		}
	}
}
