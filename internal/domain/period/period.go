// Package period turns free-text style periods ("12th-16th Century",
// "1920s-1930s", "19th Century") into century-granularity intervals.
package period

import (
	"regexp"
	"strconv"
)

// yearsPerCentury converts a four-digit year into its containing century.
const yearsPerCentury = 100

// Interval is a closed range of centuries. The zero value is the unknown
// sentinel: callers must treat Start == 0 as "unparseable", not as a 0th
// century.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Unknown is returned when no matcher recognises the input.
var Unknown = Interval{}

// Known reports whether the interval came from a successful match.
func (i Interval) Known() bool {
	return i.Start != 0
}

// Len returns the number of centuries covered, inclusive of both ends.
func (i Interval) Len() int {
	return i.End - i.Start + 1
}

// Matcher pairs a pattern with the normalizer that turns its submatches
// into an Interval.
type Matcher struct {
	Name      string
	Pattern   *regexp.Regexp
	Normalize func(groups []string) (Interval, bool)
}

// Parser evaluates matchers in priority order; the first match wins.
type Parser struct {
	matchers []Matcher
}

// NewParser creates a parser over the given matchers. With no matchers it
// uses DefaultMatchers.
func NewParser(matchers ...Matcher) *Parser {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Parser{matchers: matchers}
}

// Parse maps s to an Interval. It never fails: unrecognised input yields
// Unknown.
func (p *Parser) Parse(s string) Interval {
	for _, m := range p.matchers {
		groups := m.Pattern.FindStringSubmatch(s)
		if groups == nil {
			continue
		}
		if iv, ok := m.Normalize(groups[1:]); ok {
			return iv
		}
	}
	return Unknown
}

// DefaultMatchers returns the built-in shapes in precedence order:
// century range, year range, single century, single decade.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{
			Name:      "century_range",
			Pattern:   regexp.MustCompile(`(\d+)(?:st|nd|rd|th)-(\d+)(?:st|nd|rd|th)`),
			Normalize: rangeOf(identity),
		},
		{
			Name:      "year_range",
			Pattern:   regexp.MustCompile(`(\d{4})s?-(\d{4})s?`),
			Normalize: rangeOf(centuryOfYear),
		},
		{
			Name:      "century",
			Pattern:   regexp.MustCompile(`(\d+)(?:st|nd|rd|th)`),
			Normalize: singleOf(identity),
		},
		{
			Name:      "decade",
			Pattern:   regexp.MustCompile(`(\d{4})s`),
			Normalize: singleOf(centuryOfYear),
		},
	}
}

var defaultParser = NewParser()

// Parse maps s to an Interval using the default matchers.
func Parse(s string) Interval {
	return defaultParser.Parse(s)
}

func identity(n int) int { return n }

// centuryOfYear is ceil(year/100) on non-negative integers.
func centuryOfYear(year int) int {
	return (year + yearsPerCentury - 1) / yearsPerCentury
}

func rangeOf(conv func(int) int) func([]string) (Interval, bool) {
	return func(groups []string) (Interval, bool) {
		if len(groups) < 2 {
			return Unknown, false
		}
		a, errA := strconv.Atoi(groups[0])
		b, errB := strconv.Atoi(groups[1])
		if errA != nil || errB != nil {
			return Unknown, false
		}
		start, end := conv(a), conv(b)
		if start > end {
			start, end = end, start
		}
		return Interval{Start: start, End: end}, true
	}
}

func singleOf(conv func(int) int) func([]string) (Interval, bool) {
	return func(groups []string) (Interval, bool) {
		if len(groups) < 1 {
			return Unknown, false
		}
		n, err := strconv.Atoi(groups[0])
		if err != nil {
			return Unknown, false
		}
		c := conv(n)
		return Interval{Start: c, End: c}, true
	}
}
