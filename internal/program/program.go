// Package program computes presentation state from schedule snapshots:
// canonical ordering, day grouping, and "ahora / próximo" selection. Every
// function is pure over its inputs — the clock is always passed in — so
// identical snapshot plus identical now yields identical output.
package program

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"encuentro/internal/sheet"
)

// Days is the fixed sequence of program days the schedule is organized
// around. Rows with any other day label sort after these.
var Days = []string{"Viernes", "Sábado", "Domingo"}

var weekdayLabels = map[time.Weekday]string{
	time.Friday:   "Viernes",
	time.Saturday: "Sábado",
	time.Sunday:   "Domingo",
}

// unknownDay and unparsableTime are the sort sentinels for rows the program
// metadata can't place; both order last, stably.
const (
	unknownDay      = 1 << 16
	unparsableTime  = 24 * 60
	minutesPerHour  = 60
	canonicalLayout = "3:04 PM"
)

// DayIndex returns the position of label in the program-day sequence, or
// unknownDay when the label is not a program day. Matching ignores case,
// surrounding whitespace and the accent in "Sábado".
func DayIndex(label string) int {
	needle := foldDay(label)
	for i, day := range Days {
		if foldDay(day) == needle {
			return i
		}
	}
	return unknownDay
}

func foldDay(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	return strings.ReplaceAll(s, "á", "a")
}

// ampmRe matches the locale's trailing meridiem in its observed spellings:
// "a. m.", "a.m.", "am", "p. M", with irregular internal spacing.
var ampmRe = regexp.MustCompile(`(?i)([ap])\.?\s*m\.?\s*$`)

// NormalizeHour collapses a locale-formatted time string to the canonical
// "h:mm AM" form: whitespace runs become single spaces and meridiem
// abbreviations the canonical two letters.
func NormalizeHour(hour string) string {
	s := strings.Join(strings.Fields(hour), " ")
	m := ampmRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	letter := strings.ToUpper(s[m[2]:m[3]])
	return strings.TrimSpace(s[:m[0]]) + " " + letter + "M"
}

// MinuteOfDay parses a schedule hour into minutes since midnight. Unparsable
// strings return unparsableTime and ok=false instead of failing, so a typo'd
// cell can never crash a sort.
func MinuteOfDay(hour string) (int, bool) {
	t, err := time.Parse(canonicalLayout, NormalizeHour(hour))
	if err != nil {
		return unparsableTime, false
	}
	return t.Hour()*minutesPerHour + t.Minute(), true
}

// Sort orders sessions by program-day index, then parsed time-of-day.
// Unknown day labels sort after the known days, lexically among themselves;
// unparsable times sort last within their day. The sort is stable.
func Sort(sessions []sheet.Session) []sheet.Session {
	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b sheet.Session) int {
		ai, bi := DayIndex(a.Day), DayIndex(b.Day)
		if ai != bi {
			return ai - bi
		}
		if ai == unknownDay {
			if c := strings.Compare(a.Day, b.Day); c != 0 {
				return c
			}
		}
		am, _ := MinuteOfDay(a.Hour)
		bm, _ := MinuteOfDay(b.Hour)
		return am - bm
	})
	return sorted
}

// Selection is the result of CurrentNext: pointers into the sorted copy, nil
// when no row qualifies.
type Selection struct {
	Current *sheet.Session
	Next    *sheet.Session
}

// CurrentNext picks the "ahora" row — today is a program day and the row's
// hour equals now at minute granularity — and the "próximo" row: the first
// row strictly after now on today's program day, else the first row of the
// next program day. Outside the program days both are nil.
func CurrentNext(sessions []sheet.Session, now time.Time) Selection {
	today, ok := weekdayLabels[now.Weekday()]
	if !ok {
		return Selection{}
	}
	todayIdx := DayIndex(today)
	nowMinutes := now.Hour()*minutesPerHour + now.Minute()

	sorted := Sort(sessions)
	var sel Selection
	for i := range sorted {
		s := &sorted[i]
		di := DayIndex(s.Day)
		if di == unknownDay {
			continue
		}
		m, parsed := MinuteOfDay(s.Hour)
		if !parsed {
			continue
		}
		switch {
		case di == todayIdx && m == nowMinutes:
			if sel.Current == nil {
				sel.Current = s
			}
		case di == todayIdx && m > nowMinutes:
			if sel.Next == nil {
				sel.Next = s
			}
		case di > todayIdx:
			if sel.Next == nil {
				sel.Next = s
			}
		}
	}
	return sel
}

// Grouped is an order-preserving partition of rows by a key.
type Grouped[T any] struct {
	Keys   []string
	Groups map[string][]T
}

// GroupBy partitions rows keyed by key, keeping the keys in first-seen
// order.
func GroupBy[T any](rows []T, key func(T) string) Grouped[T] {
	g := Grouped[T]{Groups: make(map[string][]T)}
	for _, row := range rows {
		k := key(row)
		if _, seen := g.Groups[k]; !seen {
			g.Keys = append(g.Keys, k)
		}
		g.Groups[k] = append(g.Groups[k], row)
	}
	return g
}

// GroupByDay partitions sessions by day label and reorders only the key
// sequence into canonical program-day order; rows inside each group keep
// their snapshot order.
func GroupByDay(sessions []sheet.Session) Grouped[sheet.Session] {
	g := GroupBy(sessions, func(s sheet.Session) string { return s.Day })
	slices.SortStableFunc(g.Keys, func(a, b string) int {
		ai, bi := DayIndex(a), DayIndex(b)
		if ai != bi {
			return ai - bi
		}
		return strings.Compare(a, b)
	})
	return g
}
