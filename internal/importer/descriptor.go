package importer

import (
	"strconv"
	"strings"
	"unicode"
)

// Defaults applied when a descriptor does not say otherwise.
const (
	DefaultSets        = 1
	DefaultReps        = 1
	DefaultCardioTime  = 30 // minutes
	MaxRepsPlaceholder = 12 // stands in for an open-ended "MÁXIMO" set
)

const (
	maxToken = "MÁXIMO"
	maxMask  = "#M#"
)

// Descriptor is the structured reading of a free-text "sets/reps" cell such as
// "4X12", "30 min" or "15 - 12 - 10 - 8 - 6".
type Descriptor struct {
	Cardio bool
	Sets   int
	Reps   int
	Time   *float64 // minutes; only set when the text carries a duration
}

// ParseDescriptor classifies a descriptor. Rules are tried in order and the
// first match wins:
//
//	"30 min"       -> cardio, time 30
//	"4X 12 A 15"   -> sets 4, reps 12
//	"15 - 12 - 10" -> sets 3 (one per segment), reps 15
//	"4X MÁXIMO"    -> sets 4, reps 12
//	"3x12 + 12"    -> sets 3, reps 12
//
// Numbers that cannot be read keep their defaults, so the result always has
// sets and reps of at least one.
func ParseDescriptor(s string) Descriptor {
	d := Descriptor{Sets: DefaultSets, Reps: DefaultReps}

	// "MÁXIMO" itself contains an X; mask it so it never acts as a separator.
	masked := strings.ReplaceAll(s, maxToken, maxMask)

	switch {
	case masked == "":
	case strings.Contains(masked, "min"):
		d.Cardio = true
		if n, ok := atoiPositive(digitsOnly(s)); ok {
			t := float64(n)
			d.Time = &t
		}
	case strings.Contains(masked, "X"):
		left, right, _ := strings.Cut(masked, "X")
		d.Sets = positiveOr(left, DefaultSets)
		if fields := strings.Fields(right); len(fields) > 0 {
			if strings.HasPrefix(fields[0], maxMask) {
				d.Reps = MaxRepsPlaceholder
			} else {
				d.Reps = positiveOr(fields[0], DefaultReps)
			}
		}
	case strings.Contains(masked, "-"):
		segments := strings.Split(masked, "-")
		d.Sets = len(segments)
		d.Reps = positiveOr(segments[0], DefaultReps)
	case strings.Contains(masked, maxMask):
		if left, _, found := cutX(masked); found {
			d.Sets = positiveOr(left, DefaultSets)
		}
		d.Reps = MaxRepsPlaceholder
	case strings.Contains(masked, "+"):
		if left, right, found := cutX(masked); found {
			d.Sets = positiveOr(left, DefaultSets)
			before, _, _ := strings.Cut(right, "+")
			d.Reps = positiveOr(before, DefaultReps)
		} else {
			before, _, _ := strings.Cut(masked, "+")
			d.Reps = positiveOr(before, DefaultReps)
		}
	}
	return d
}

// cutX splits around the first "X" or "x".
func cutX(s string) (before, after string, found bool) {
	i := strings.IndexAny(s, "Xx")
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// leadingInt reads the integer prefix of s after leading spaces, the way a
// lenient number parser would: "12 A 15" -> 12, "abc" -> not ok.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func positiveOr(s string, def int) int {
	if n, ok := leadingInt(s); ok && n > 0 {
		return n
	}
	return def
}

func atoiPositive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
