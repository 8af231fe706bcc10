package codelab

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationLineRe = regexp.MustCompile(`(?i)^Duration:\s*(\d+)\s*(minutes?)?\s*$`)

// NormalizeDurations rewrites every standalone "Duration: N" line in text,
// with or without a unit, to the canonical singular/plural form followed by
// exactly one blank line. Runs of blank lines after the duration collapse to
// one; applying the pass twice yields the same result as applying it once.
func NormalizeDurations(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		m := durationLineRe.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}
		n, _ := strconv.Atoi(m[1])
		out = append(out, fmt.Sprintf("Duration: %d %s", n, minuteUnit(n)), "")
		for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" {
			i++
		}
	}
	return strings.Join(out, "\n")
}
