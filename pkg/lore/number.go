package lore

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumber parses an entry number. It must be a positive finite number.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidNumber
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0, ErrInvalidNumber
	}
	return n, nil
}

// ArcKey returns the arc an entry number belongs to: the integer part as
// a decimal string. ok is false for unparseable numbers.
func ArcKey(number string) (string, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return "", false
	}
	return strconv.FormatInt(int64(math.Floor(n)), 10), true
}

// NextEntryNumber returns floor(max number)+1, or 1 when no entry has a
// parseable number.
func NextEntryNumber(entries []Entry) int {
	found := false
	max := 0.0
	for _, e := range entries {
		n, err := strconv.ParseFloat(strings.TrimSpace(e.Number), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		if !found || n > max {
			max = n
			found = true
		}
	}
	if !found {
		return 1
	}
	return int(math.Floor(max)) + 1
}

// SortEntries sorts in place by numeric number, ascending or descending.
// The sort is stable and entries whose number does not parse go last.
func SortEntries(entries []Entry, descending bool) {
	keys := make([]float64, len(entries))
	valid := make([]bool, len(entries))
	idx := make([]int, len(entries))
	for i, e := range entries {
		n, err := strconv.ParseFloat(strings.TrimSpace(e.Number), 64)
		keys[i], valid[i] = n, err == nil && !math.IsNaN(n)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if valid[i] != valid[j] {
			return valid[i]
		}
		if !valid[i] {
			return false
		}
		if descending {
			return keys[i] > keys[j]
		}
		return keys[i] < keys[j]
	})
	sorted := make([]Entry, len(entries))
	for pos, i := range idx {
		sorted[pos] = entries[i]
	}
	copy(entries, sorted)
}

// Slugify derives a tag id from its name: lowercase, apostrophes
// removed, runs of other non-alphanumerics collapsed to '-', and no
// leading or trailing '-'.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == '\'':
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
