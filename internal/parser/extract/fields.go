package extract

import (
	"strconv"
	"strings"

	"github.com/Vodeneev/matchsync/internal/pkg/enums"
)

// parseOdds accepts decimal digits with at most one decimal point. Anything else is absent.
func parseOdds(text string) (*float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, false
	}
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return nil, false
		}
	}
	if digits == 0 || dots > 1 {
		return nil, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// parseScoreHalf accepts decimal digits only.
func parseScoreHalf(text string) (*int, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// parseScore splits "H-A" or "H:A". Each half is validated on its own, so "3-?" yields a home
// score only.
func parseScore(text string) (home, away *int) {
	s := strings.TrimSpace(text)
	sep := "-"
	if !strings.Contains(s, sep) {
		sep = ":"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return nil, nil
	}
	home, _ = parseScoreHalf(parts[0])
	away, _ = parseScoreHalf(parts[1])
	return home, away
}

// inferStatus maps a status token to a Status. A recognised marker wins. An unrecognised token
// means the page said something we do not understand, which is treated as scheduled. Without a
// token, a complete score implies the match is over.
func inferStatus(token string, markers StatusMarkers, home, away *int) enums.Status {
	token = strings.TrimSpace(token)
	if token != "" {
		for _, m := range markers.Finished {
			if strings.Contains(token, m) {
				return enums.StatusFinished
			}
		}
		for _, m := range markers.Live {
			if strings.Contains(token, m) {
				return enums.StatusLive
			}
		}
		return enums.StatusScheduled
	}
	if home != nil && away != nil {
		return enums.StatusFinished
	}
	return enums.StatusScheduled
}
