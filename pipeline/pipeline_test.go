package pipeline_test

import (
	"reflect"
	"strings"
	"testing"

	"medassist-backend/pipeline"
	"medassist-backend/report"
)

func TestNormalizeThinkingRoundTrip(t *testing.T) {
	out := pipeline.Normalize("<think>X</think>{\"answer_markdown\":\"Y\"}", pipeline.ModeQnA)
	if out.Answer == nil || out.Answer.AnswerText != "Y" {
		t.Fatalf("answer=%+v", out.Answer)
	}
	if out.Answer.Error != "" {
		t.Errorf("unexpected error %q", out.Answer.Error)
	}
}

func TestNormalizeSentinelPassthrough(t *testing.T) {
	raw := "Error: Could not reach the assistant service."
	for _, mode := range []pipeline.Mode{pipeline.ModeQnA, pipeline.ModeSymptoms, pipeline.ModeReportAnalysis, pipeline.ModeReportGeneration} {
		out := pipeline.Normalize(raw, mode)
		if out.Answer.AnswerText != raw {
			t.Errorf("mode %s: answer=%q; want the sentinel verbatim", mode, out.Answer.AnswerText)
		}
		if out.Answer.Error == "" {
			t.Errorf("mode %s: error not flagged", mode)
		}
	}
	out := pipeline.Normalize(raw, pipeline.ModeReportAnalysis)
	if out.Analysis == nil || out.Analysis.OverallStatus != report.OverallError {
		t.Errorf("analysis=%+v; want error structure", out.Analysis)
	}
}

func TestNormalizeEmptyResponse(t *testing.T) {
	out := pipeline.Normalize("<think>only thoughts, no answer</think>   ", pipeline.ModeQnA)
	if out.Answer.Error == "" {
		t.Fatalf("empty cleaned text must be flagged")
	}
	if strings.TrimSpace(out.Answer.AnswerText) == "" {
		t.Errorf("answer text must stay displayable")
	}
}

func TestNormalizeQnANarrativeFallback(t *testing.T) {
	raw := "Iron deficiency is common.\n\nFurther Exploration:\n- How is ferritin measured?"
	out := pipeline.Normalize(raw, pipeline.ModeQnA)
	if !strings.Contains(out.Answer.AnswerText, "Iron deficiency is common.") {
		t.Errorf("answer=%q", out.Answer.AnswerText)
	}
	if len(out.Answer.FollowUpQuestions) != 1 {
		t.Errorf("follow-ups=%v", out.Answer.FollowUpQuestions)
	}
}

func TestNormalizeSymptomsOpaqueFallback(t *testing.T) {
	raw := "Plain prose symptom assessment without JSON."
	out := pipeline.Normalize(raw, pipeline.ModeSymptoms)
	if out.Answer.AnswerText != raw {
		t.Errorf("answer=%q; symptoms fallback should keep text opaque", out.Answer.AnswerText)
	}
	if len(out.Answer.FollowUpQuestions) != 0 {
		t.Errorf("no narrative splitting expected in symptoms mode")
	}
}

func TestNormalizeSymptomsJSON(t *testing.T) {
	raw := `{"answer_markdown": "Possible viral infection.", "disease_identification": "Viral URI", "next_steps": ["Rest", "Hydrate well"]}`
	out := pipeline.Normalize(raw, pipeline.ModeSymptoms)
	if out.Answer.TentativeIdentification != "Viral URI" {
		t.Errorf("identification=%q", out.Answer.TentativeIdentification)
	}
	if len(out.Answer.NextSteps) != 2 {
		t.Errorf("next steps=%v", out.Answer.NextSteps)
	}
}

func TestNormalizeReportAnalysis(t *testing.T) {
	raw := "GENERAL_SUMMARY:\nValues look abnormal.\n\nIDENTIFIED_PARAMETERS:\n- Hemoglobin: 12.00 g/dL (13.00-17.00 g/dL) - Low\n"
	out := pipeline.Normalize(raw, pipeline.ModeReportAnalysis)
	if out.Analysis == nil || len(out.Analysis.Parameters) != 1 {
		t.Fatalf("analysis=%+v", out.Analysis)
	}
	if !strings.Contains(out.Answer.AnswerText, "GENERAL_SUMMARY") {
		t.Errorf("full text should remain the displayable answer")
	}
}

func TestNormalizeReportGeneration(t *testing.T) {
	raw := "## Survey Findings\nAnemia remains high.\nCHART_DATA: TYPE=bar TITLE=\"Prevalence\" LABELS=[\"Rural\", \"Urban\"] DATA=[22, 14]\nEnd."
	out := pipeline.Normalize(raw, pipeline.ModeReportGeneration)
	if len(out.Charts) != 1 {
		t.Fatalf("charts=%+v", out.Charts)
	}
	if strings.Contains(out.Answer.AnswerText, "CHART_DATA") {
		t.Errorf("directive leaked into answer: %q", out.Answer.AnswerText)
	}
	if len(out.Answer.Charts) != 1 {
		t.Errorf("answer charts not populated")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"<think>X</think>{\"answer_markdown\":\"Y\"}",
		"Plain text answer. Further Exploration: What should I ask next time?",
		"Error: upstream failed",
	}
	for _, raw := range inputs {
		a := pipeline.Normalize(raw, pipeline.ModeQnA)
		b := pipeline.Normalize(raw, pipeline.ModeQnA)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Normalize(%q) not deterministic", raw)
		}
	}
}
