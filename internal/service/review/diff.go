package review

import (
	"github.com/pmezard/go-difflib/difflib"
)

// diffView renders a unified diff between the original body and a suggested
// revision, for display next to the revision. An empty string is returned
// when the diff itself cannot be produced; the revision is still usable.
func diffView(original, revised string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(revised),
		FromFile: "original",
		ToFile:   "revised",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
