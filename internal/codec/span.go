package codec

import (
	"math"
	"strconv"
	"strings"
)

// Span is a signed calendar duration: the native form of a Duration-tagged
// cell. Unit groups are independent; nothing is normalized across units, so
// 90 minutes stays 90 minutes. Only the smallest unit present in a payload
// may be fractional.
type Span struct {
	Years   float64
	Months  float64
	Weeks   float64
	Days    float64
	Hours   float64
	Minutes float64
	Seconds float64
	Micros  float64
}

// IsZero reports whether every unit group is zero.
func (s Span) IsZero() bool {
	return s == Span{}
}

// String encodes the span in the wire grammar: unit groups in the fixed
// order "y mo w d h m s µs", zero groups suppressed. A zero span encodes as
// "0s".
func (s Span) String() string {
	units := []struct {
		val  float64
		unit string
	}{
		{s.Years, "y"}, {s.Months, "mo"}, {s.Weeks, "w"}, {s.Days, "d"},
		{s.Hours, "h"}, {s.Minutes, "m"}, {s.Seconds, "s"}, {s.Micros, "µs"},
	}
	var parts []string
	for _, g := range units {
		if g.val != 0 {
			parts = append(parts, strconv.FormatFloat(g.val, 'f', -1, 64)+g.unit)
		}
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

// ParseSpan decodes the wire grammar. Each whitespace-separated group is
// parsed independently; unknown units, repeated units, and malformed groups
// are reported, missing units default to zero. A fractional value is legal
// only on the smallest unit present.
func ParseSpan(payload string) (Span, bool) {
	var s Span
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return s, false
	}

	targets := map[string]*float64{
		"y": &s.Years, "mo": &s.Months, "w": &s.Weeks, "d": &s.Days,
		"h": &s.Hours, "m": &s.Minutes, "s": &s.Seconds,
		"µs": &s.Micros, "us": &s.Micros,
	}
	ranks := map[string]int{
		"y": 0, "mo": 1, "w": 2, "d": 3, "h": 4, "m": 5, "s": 6,
		"µs": 7, "us": 7,
	}

	smallest, fractional := -1, -1
	seen := make(map[int]bool, len(fields))
	for _, f := range fields {
		num, unit := splitUnit(f)
		target, ok := targets[unit]
		if num == "" || !ok {
			return Span{}, false
		}
		rank := ranks[unit]
		if seen[rank] {
			return Span{}, false
		}
		seen[rank] = true
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return Span{}, false
		}
		*target = v
		if rank > smallest {
			smallest = rank
		}
		if v != math.Trunc(v) && rank > fractional {
			fractional = rank
		}
	}
	// A fraction anywhere above the smallest present unit is out of grammar.
	if fractional >= 0 && fractional < smallest {
		return Span{}, false
	}
	return s, true
}

// splitUnit separates the numeric prefix from the unit suffix of one group.
func splitUnit(group string) (num, unit string) {
	i := 0
	for i < len(group) {
		c := group[i]
		if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return group[:i], group[i:]
}
