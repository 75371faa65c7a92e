package report_test

import (
	"testing"

	"medassist-backend/report"
)

func TestNewAnalysisResult(t *testing.T) {
	raw := "GENERAL_SUMMARY:\nAll within range.\n"
	r := report.NewAnalysisResult("u1", "cbc.pdf", raw)
	if r.ID == "" {
		t.Errorf("missing id")
	}
	if r.RawAnalysis != raw {
		t.Errorf("raw text must be kept verbatim")
	}
	if r.Structured == nil || r.Structured.Summary != "All within range." {
		t.Errorf("structured=%+v", r.Structured)
	}
	if r.CreatedAt.IsZero() {
		t.Errorf("missing timestamp")
	}
}

func TestErrorAnalysisStructure(t *testing.T) {
	sa := report.ErrorAnalysis("Error: upstream failed")
	if sa.OverallStatus != report.OverallError {
		t.Errorf("status=%s", sa.OverallStatus)
	}
	if sa.Summary != "Error: upstream failed" {
		t.Errorf("summary=%q", sa.Summary)
	}
	if len(sa.Recommendations) == 0 || sa.FollowUp == "" {
		t.Errorf("degraded structure must stay displayable: %+v", sa)
	}
}
