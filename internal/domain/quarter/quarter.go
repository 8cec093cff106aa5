// Package quarter defines the calendar-quarter grid scores are aggregated on.
package quarter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Bounds of the default grid.
const (
	DefaultFirst = "Q1 2023"
	DefaultLast  = "Q1 2026"
)

// Quarter is a calendar quarter, e.g. Q3 2024.
type Quarter struct {
	Year int
	Num  int // 1..4
}

// New returns the quarter with the given year and number.
func New(year, num int) (Quarter, error) {
	if num < 1 || num > 4 {
		return Quarter{}, fmt.Errorf("%w: quarter number %d", ErrInvalidQuarter, num)
	}
	return Quarter{Year: year, Num: num}, nil
}

// Parse reads a label of the form "Q<n> <yyyy>".
func Parse(label string) (Quarter, error) {
	s := strings.TrimSpace(label)
	if len(s) < 4 || (s[0] != 'Q' && s[0] != 'q') || s[2] != ' ' {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, label)
	}
	num := int(s[1] - '0')
	year, err := strconv.Atoi(s[3:])
	if err != nil || year < 1 {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, label)
	}
	return New(year, num)
}

// Of returns the quarter containing t (in t's location).
func Of(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Num: (int(t.Month())-1)/3 + 1}
}

// String renders the canonical label, e.g. "Q1 2023".
func (q Quarter) String() string {
	return fmt.Sprintf("Q%d %d", q.Num, q.Year)
}

// End returns the last instant of the quarter's final month in UTC.
func (q Quarter) End() time.Time {
	firstOfNext := time.Date(q.Year, time.Month(q.Num*3+1), 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.Add(-time.Nanosecond)
}

// Next returns the following quarter.
func (q Quarter) Next() Quarter {
	if q.Num == 4 {
		return Quarter{Year: q.Year + 1, Num: 1}
	}
	return Quarter{Year: q.Year, Num: q.Num + 1}
}

// Before reports whether q is earlier than o.
func (q Quarter) Before(o Quarter) bool {
	if q.Year != o.Year {
		return q.Year < o.Year
	}
	return q.Num < o.Num
}

// Grid is an ordered, gap-free sequence of quarters.
type Grid []Quarter

// Range builds the inclusive grid from first to last.
func Range(first, last Quarter) (Grid, error) {
	if last.Before(first) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, first, last)
	}
	var g Grid
	for q := first; !last.Before(q); q = q.Next() {
		g = append(g, q)
	}
	return g, nil
}

// ParseRange builds a grid from two labels.
func ParseRange(first, last string) (Grid, error) {
	f, err := Parse(first)
	if err != nil {
		return nil, err
	}
	l, err := Parse(last)
	if err != nil {
		return nil, err
	}
	return Range(f, l)
}

// Default returns the Q1 2023 .. Q1 2026 grid.
func Default() Grid {
	g, err := ParseRange(DefaultFirst, DefaultLast)
	if err != nil {
		panic(err)
	}
	return g
}

// Labels returns the quarter labels in grid order.
func (g Grid) Labels() []string {
	out := make([]string, len(g))
	for i, q := range g {
		out[i] = q.String()
	}
	return out
}

// Index returns the position of label in the grid.
func (g Grid) Index(label string) (int, bool) {
	q, err := Parse(label)
	if err != nil {
		return 0, false
	}
	for i, c := range g {
		if c == q {
			return i, true
		}
	}
	return 0, false
}
