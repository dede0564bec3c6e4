package matching

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// DefaultThreshold is the combined score at which two names count as the same team.
	DefaultThreshold = 80
	// MaxScore is the score of two names with equal normalized keys.
	MaxScore = 100.0
)

// Scorer compares normalized team names.
type Scorer struct {
	Threshold int
}

// NewScorer returns a scorer; a non-positive threshold falls back to DefaultThreshold.
func NewScorer(threshold int) *Scorer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Scorer{Threshold: threshold}
}

// IsEquivalent reports whether a and b name the same team under the scorer's threshold.
func (s *Scorer) IsEquivalent(a, b string) bool {
	return IsEquivalent(a, b, s.Threshold)
}

// Score is the package-level Score; kept as a method so callers can hold one collaborator.
func (s *Scorer) Score(a, b string) float64 {
	return Score(a, b)
}

// IsEquivalent reports whether the combined score of a and b reaches threshold.
// Names with equal normalized keys are equivalent without running any similarity measure,
// which is what makes two empty names equivalent.
func IsEquivalent(a, b string, threshold int) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	return combined(na, nb) >= float64(threshold)
}

// Score returns the combined similarity of a and b in [0,100]: the larger of the full-string
// ratio and the best-substring (partial) ratio of their normalized forms.
func Score(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return MaxScore
	}
	return combined(na, nb)
}

func combined(a, b string) float64 {
	return math.Max(Ratio(a, b), PartialRatio(a, b))
}

// Ratio is the edit similarity of the whole strings: 100 * (1 - distance / longer length),
// rounded to a whole number. Either string being empty scores 0.
func Ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	d := levenshtein.ComputeDistance(a, b)
	return math.Round(100 * (1 - float64(d)/float64(longest)))
}

// PartialRatio slides the shorter string over every equally long window of the longer one
// and returns the best Ratio. Strings of equal length reduce to Ratio.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return Ratio(a, b)
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := Ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == MaxScore {
				break
			}
		}
	}
	return best
}
