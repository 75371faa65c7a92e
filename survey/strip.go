package survey

import (
	"regexp"
	"strings"
)

var directiveLineRe = regexp.MustCompile(`(?m)^.*CHART_DATA:.*$\n?`)
var blankRunRe = regexp.MustCompile(`\n{3,}`)

// StripDirectives removes CHART_DATA lines from report markdown once the
// charts have been parsed out, so the directive text never reaches the user.
func StripDirectives(text string) string {
	out := directiveLineRe.ReplaceAllString(text, "")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
