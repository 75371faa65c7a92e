// Package extract isolates the usable payload inside a raw model completion:
// it strips "thinking" digressions and locates a top-level JSON object when
// one is present, tolerating fences, preambles and mildly broken JSON.
package extract

import (
	"regexp"
	"strings"
)

var (
	thinkOpen  = regexp.MustCompile(`(?i)<think>`)
	thinkClose = regexp.MustCompile(`(?i)</think>`)
	jsonFence  = regexp.MustCompile("(?is)```json\\s*(.*?)```")
)

// StripThoughts removes reasoning digressions from a raw completion and
// returns the candidate payload plus whether a thinking region was found.
// The last closing delimiter wins (models sometimes nest or restart thought
// blocks): everything up to and including it is discarded. An opening tag
// that never closes discards from the tag to the end of the text. Within the
// surviving body a ```json fence interior is preferred over the body itself.
func StripThoughts(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	if locs := thinkClose.FindAllStringIndex(raw, -1); len(locs) > 0 {
		return payload(raw[locs[len(locs)-1][1]:]), true
	}
	if loc := thinkOpen.FindStringIndex(raw); loc != nil {
		return payload(raw[:loc[0]]), true
	}
	return payload(raw), false
}

func payload(body string) string {
	if m := jsonFence.FindStringSubmatch(body); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner
		}
	}
	return strings.TrimSpace(body)
}
