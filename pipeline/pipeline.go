// Package pipeline normalizes raw model completions into the canonical
// answer shape. It is pure and stateless: network calls, persistence and
// caching belong to the callers.
package pipeline

import (
	"log"
	"strings"

	"medassist-backend/answer"
	"medassist-backend/extract"
	"medassist-backend/qna"
	"medassist-backend/report"
	"medassist-backend/survey"
)

type Mode string

const (
	ModeQnA              Mode = "qna"
	ModeSymptoms         Mode = "symptoms"
	ModeReportAnalysis   Mode = "report_analysis"
	ModeReportGeneration Mode = "report_generation"
)

// Outcome carries the canonical answer plus the mode-specific extras:
// Analysis for report analysis, Charts for report generation.
type Outcome struct {
	Answer   *answer.CanonicalAnswer
	Analysis *report.StructuredAnalysis
	Charts   []answer.ChartSeries
}

const errorSentinel = "Error:"

// Normalize turns one raw completion into an Outcome. It never returns a nil
// Answer or an empty AnswerText, whatever the input looks like.
func Normalize(raw string, mode Mode) Outcome {
	trimmed := strings.TrimSpace(raw)

	// Upstream failures arrive as sentinel strings and pass through
	// verbatim. No parsing is attempted on them.
	if strings.HasPrefix(trimmed, errorSentinel) {
		a := answer.New(trimmed)
		a.Error = trimmed
		out := Outcome{Answer: a}
		if mode == ModeReportAnalysis {
			out.Analysis = report.ErrorAnalysis(trimmed)
		}
		return out
	}

	cleaned, stripped := extract.StripThoughts(raw)
	if stripped {
		log.Printf("[pipeline][%s] stripped thinking block, %d -> %d chars", mode, len(raw), len(cleaned))
	}
	if strings.TrimSpace(cleaned) == "" {
		a := answer.New("The assistant returned an empty response. Please try again.")
		a.Error = "empty response after cleanup"
		out := Outcome{Answer: a}
		if mode == ModeReportAnalysis {
			out.Analysis = report.ErrorAnalysis(a.Error)
		}
		return out
	}

	switch mode {
	case ModeSymptoms:
		return Outcome{Answer: normalizeStructured(cleaned, false)}
	case ModeReportAnalysis:
		return Outcome{
			Answer:   answer.New(cleaned),
			Analysis: report.Parse(cleaned),
		}
	case ModeReportGeneration:
		charts := survey.ParseCharts(cleaned)
		a := answer.New(survey.StripDirectives(cleaned))
		a.Charts = charts
		if strings.TrimSpace(a.AnswerText) == "" {
			a.AnswerText = "See the visualizations below."
		}
		return Outcome{Answer: a, Charts: charts}
	default:
		return Outcome{Answer: normalizeStructured(cleaned, true)}
	}
}

// normalizeStructured handles the JSON-envelope modes. A parsed object goes
// through the field mapper; anything else degrades to narrative splitting
// (qna) or opaque markdown (symptoms).
func normalizeStructured(cleaned string, narrativeFallback bool) *answer.CanonicalAnswer {
	if obj, ok := extract.Object(cleaned); ok {
		a := answer.FromJSONObject(obj)
		if strings.TrimSpace(a.AnswerText) == "" {
			log.Printf("[pipeline][mapper] mapped object had no answer text, falling back to raw text")
			a.AnswerText = cleaned
		}
		return a
	}
	if !narrativeFallback {
		return answer.New(cleaned)
	}
	res := qna.Split(cleaned)
	a := answer.New(res.AnswerText)
	a.FollowUpQuestions = res.FollowUpQuestions
	a.Charts = res.Charts
	return a
}
