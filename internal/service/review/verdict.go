package review

import (
	"strings"

	"github.com/heartmarshall/inkwell-backend/internal/adapter/agent"
)

// parseVerdict extracts the pass/fail verdict from a technical review report.
// The report is expected to end with one of the marker lines the prompt asks
// for; matching is tolerant of case and spacing but fail-closed: a report
// with no recognizable marker is treated as a failure so that an unparseable
// review never lets an article through.
func parseVerdict(report string) bool {
	pass := normalizeMarker(agent.VerdictPass)
	fail := normalizeMarker(agent.VerdictFail)

	lines := strings.Split(report, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := normalizeMarker(lines[i])
		if line == "" {
			continue
		}
		if strings.Contains(line, pass) {
			return true
		}
		if strings.Contains(line, fail) {
			return false
		}
	}

	return false
}

func normalizeMarker(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '\r', '*', '`', '_', '#':
			// Models wrap the marker in Markdown emphasis; strip it.
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}
