// Package rank scores merged stories and orders a run's output.
package rank

import (
	"regexp"
	"strconv"
	"strings"
)

// heatKind is the closed set of normalization behaviors. Sources either
// report a countable metric (points, upvotes, stars) scaled by a divisor
// and capped, or report nothing numeric and get a flat baseline.
type heatKind int

const (
	countBased heatKind = iota
	flatBaseline
)

type heatRule struct {
	kind    heatKind
	divisor float64
	cap     float64
}

// heatRules maps source-identifier fragments to normalization rules.
// 1000 HN points, 50K upvotes, or 100K stars all normalize to 100.
var heatRules = []struct {
	fragments []string
	rule      heatRule
}{
	{[]string{"hacker", "hn"}, heatRule{kind: countBased, divisor: 10, cap: 100}},
	{[]string{"reddit"}, heatRule{kind: countBased, divisor: 500, cap: 100}},
	{[]string{"github"}, heatRule{kind: countBased, divisor: 1000, cap: 100}},
}

var defaultHeatRule = heatRule{kind: flatBaseline, cap: 50}

var heatNumberRe = regexp.MustCompile(`([\d,.]+)\s*([kKmM])?`)

// ParseHeat extracts the numeric value from a raw heat string such as
// "227 points", "5.2K upvotes", or "1,024 stars". Unparseable input is 0.
func ParseHeat(heat string) float64 {
	m := heatNumberRe.FindStringSubmatch(heat)
	if m == nil {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}

	switch strings.ToLower(m[2]) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}
	return value
}

// NormalizeHeat converts a raw heat value to the 0-100 scale using the
// rule for the given source identifier.
func NormalizeHeat(value float64, sourceKey string) float64 {
	rule := ruleFor(sourceKey)
	switch rule.kind {
	case countBased:
		normalized := value / rule.divisor
		if normalized > rule.cap {
			return rule.cap
		}
		return normalized
	default:
		return rule.cap
	}
}

func ruleFor(sourceKey string) heatRule {
	lower := strings.ToLower(sourceKey)
	for _, entry := range heatRules {
		for _, fragment := range entry.fragments {
			if strings.Contains(lower, fragment) {
				return entry.rule
			}
		}
	}
	return defaultHeatRule
}
