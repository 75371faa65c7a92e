package survey_test

import (
	"strings"
	"testing"

	"medassist-backend/survey"
)

func TestParseChartsBasic(t *testing.T) {
	text := `Report intro.
CHART_DATA: TYPE=bar TITLE="Anemia Prevalence" LABELS=["Rural", "Urban"] DATA=[22.5, 14.1] SOURCE="NFHS-5"
Closing remarks.`
	charts := survey.ParseCharts(text)
	if len(charts) != 1 {
		t.Fatalf("charts=%d; want 1", len(charts))
	}
	c := charts[0]
	if c.Type != "bar" || c.Title != "Anemia Prevalence" || c.Source != "NFHS-5" {
		t.Errorf("chart=%+v", c)
	}
	if len(c.Labels) != 2 || len(c.Datasets) != 1 || c.Datasets[0].Data[1] != 14.1 {
		t.Errorf("chart data=%+v", c)
	}
}

func TestParseChartsMismatchedLengthsDropped(t *testing.T) {
	text := `CHART_DATA: TYPE=bar TITLE="Broken" LABELS=["a", "b", "c"] DATA=[1, 2]`
	if charts := survey.ParseCharts(text); len(charts) != 0 {
		t.Errorf("charts=%+v; mismatched lengths must drop the chart entirely", charts)
	}
}

func TestParseChartsMultiSeries(t *testing.T) {
	text := `CHART_DATA: TYPE=line TITLE="Trends" LABELS=["2020", "2021"] DATA=[[1, 2], [3, 4]]`
	charts := survey.ParseCharts(text)
	if len(charts) != 1 || len(charts[0].Datasets) != 2 {
		t.Fatalf("charts=%+v", charts)
	}
	if charts[0].Datasets[1].Label != "Series 2 for Trends" {
		t.Errorf("label=%q", charts[0].Datasets[1].Label)
	}
}

func TestParseChartsPercentAndQuoteTolerance(t *testing.T) {
	text := `CHART_DATA: TYPE=pie TITLE="Coverage" LABELS=['Yes', 'No'] DATA=["60%", "40%"]`
	charts := survey.ParseCharts(text)
	if len(charts) != 1 {
		t.Fatalf("charts=%d; want single-quoted lists and percent strings to parse", len(charts))
	}
	if charts[0].Datasets[0].Data[0] != 60 {
		t.Errorf("data=%v", charts[0].Datasets[0].Data)
	}
}

func TestParseChartsBadPointKillsDirective(t *testing.T) {
	text := `CHART_DATA: TYPE=bar TITLE="Partial" LABELS=["a", "b"] DATA=[[1, 2], ["n/a", 4]]`
	if charts := survey.ParseCharts(text); len(charts) != 0 {
		t.Fatalf("charts=%+v; a bad point in any series must drop the whole directive", charts)
	}
}

func TestParseChartsSeriesLengthMismatchKillsDirective(t *testing.T) {
	text := `CHART_DATA: TYPE=bar TITLE="Mixed" LABELS=["a", "b"] DATA=[[1, 2], [3, 4, 5]]`
	if charts := survey.ParseCharts(text); len(charts) != 0 {
		t.Fatalf("charts=%+v; one mismatched series must drop the whole directive", charts)
	}
}

func TestParseChartsDirectivesIndependent(t *testing.T) {
	text := `CHART_DATA: TYPE=bar TITLE="Bad" LABELS=[not parseable DATA=[1]
CHART_DATA: TYPE=bar TITLE="Good" LABELS=["a"] DATA=[5]`
	charts := survey.ParseCharts(text)
	if len(charts) != 1 || charts[0].Title != "Good" {
		t.Fatalf("charts=%+v", charts)
	}
}

func TestStripDirectives(t *testing.T) {
	text := "Line one.\nCHART_DATA: TYPE=bar TITLE=\"T\" LABELS=[\"a\"] DATA=[1]\nLine two."
	out := survey.StripDirectives(text)
	if strings.Contains(out, "CHART_DATA") {
		t.Errorf("directive leaked: %q", out)
	}
	if !strings.Contains(out, "Line one.") || !strings.Contains(out, "Line two.") {
		t.Errorf("prose lost: %q", out)
	}
}
