// Package qna splits a conversational (non-JSON) model answer into its side
// channels: embedded chart/table data blocks, follow-up suggestions and a
// sources section. The stages run in a fixed order because later markers may
// appear nested inside earlier ones textually.
package qna

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"medassist-backend/answer"
	"medassist-backend/extract"
)

// Result carries the split fields. All of them are optional and independently
// absent; AnswerText is never empty when the input was non-empty.
type Result struct {
	AnswerText        string
	FollowUpQuestions []string
	Charts            []answer.ChartSeries
}

var (
	chartBlockRe  = regexp.MustCompile(`(?s)CHART_TABLE_DATA_START(.*?)CHART_TABLE_DATA_END`)
	exploreMarker = regexp.MustCompile(`(?i)(?:#+\s*|\*\*\s*)?\bfurther exploration\b\s*:?\s*(?:\*\*)?`)
	sourcesMarker = regexp.MustCompile(`(?i)(?:#+\s*|\*\*\s*)?\bsources\b\s*:?\s*(?:\*\*)?`)
	bulletPrefix  = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
)

const brokenChartNote = "\n\n[Chart data could not be displayed]\n\n"

// Split runs the three extraction stages over the cleaned answer text.
func Split(text string) Result {
	var res Result

	body := chartBlockRe.ReplaceAllStringFunc(text, func(block string) string {
		inner := chartBlockRe.FindStringSubmatch(block)[1]
		charts, ok := parseChartBlock(inner)
		if !ok {
			// Keep a visible trace instead of silently vanishing the block.
			return brokenChartNote
		}
		res.Charts = append(res.Charts, charts...)
		return ""
	})

	if loc := exploreMarker.FindStringIndex(body); loc != nil {
		res.FollowUpQuestions = suggestions(body[loc[1]:])
		body = body[:loc[0]]
	}

	if loc := sourcesMarker.FindStringIndex(body); loc != nil {
		tail := strings.TrimSpace(body[loc[1]:])
		if tail == "" {
			tail = "General medical knowledge."
		}
		body = strings.TrimSpace(body[:loc[0]]) + "\n\n## Sources\n" + tail
	}

	res.AnswerText = strings.TrimSpace(body)
	if res.AnswerText == "" && len(res.Charts) > 0 {
		res.AnswerText = "See the visualizations below."
	}
	return res
}

// parseChartBlock decodes a block interior as JSON holding a visualizations
// list and converts each chart-typed item. ok=false means the whole block was
// unusable; individually bad items are just skipped.
func parseChartBlock(inner string) ([]answer.ChartSeries, bool) {
	obj, ok := extract.Object(inner)
	if !ok {
		log.Printf("[qna][charts] unparseable chart/table block (%d bytes)", len(inner))
		return nil, false
	}
	items, ok := obj["visualizations"].([]any)
	if !ok {
		log.Printf("[qna][charts] block has no visualizations list")
		return nil, false
	}
	var out []answer.ChartSeries
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := m["type"].(string); strings.EqualFold(t, "table") {
			continue // tables stay in the markdown body
		}
		raw, err := json.Marshal(m)
		if err != nil {
			continue
		}
		var c answer.ChartSeries
		if err := json.Unmarshal(raw, &c); err != nil {
			log.Printf("[qna][charts] visualizations[%d] failed to decode: %v", i, err)
			continue
		}
		if clean, ok := answer.SanitizeChart(c); ok {
			out = append(out, clean)
		}
	}
	return out, true
}

// suggestions splits marker-trailing text into at most MaxFollowUps candidate
// questions. Candidates come from line breaks, bullet markers and
// sentence-ending punctuation; fragments of 5 characters or fewer are noise.
func suggestions(tail string) []string {
	tail = strings.NewReplacer("?", "?\n", "!", "!\n", ".", ".\n").Replace(tail)
	var out []string
	for _, line := range strings.Split(tail, "\n") {
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if len(line) <= 5 {
			continue
		}
		out = append(out, line)
		if len(out) == answer.MaxFollowUps {
			break
		}
	}
	return out
}
