package survey

import (
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"medassist-backend/answer"
)

var chartDirectiveRe = regexp.MustCompile(`CHART_DATA:\s*TYPE=(\w+)\s*TITLE="([^"]+)"\s*LABELS=(\[[^\]]*\])\s*DATA=(\[[^\]]*\])(?:\s*SOURCE="([^"]+)")?`)

var titleNoiseRe = regexp.MustCompile(`[^\w\s\-().,:%&]`)

// ParseCharts scans text for CHART_DATA directives and returns the charts
// that survive validation. Directives are independent: a malformed one is
// logged and skipped without affecting the rest.
func ParseCharts(text string) []answer.ChartSeries {
	var charts []answer.ChartSeries
	for _, m := range chartDirectiveRe.FindAllStringSubmatch(text, -1) {
		chart, ok := parseDirective(m)
		if !ok {
			continue
		}
		chart, ok = answer.SanitizeChart(chart)
		if !ok {
			continue
		}
		charts = append(charts, chart)
	}
	return charts
}

func parseDirective(m []string) (answer.ChartSeries, bool) {
	chartType := strings.ToLower(m[1])
	title := strings.TrimSpace(titleNoiseRe.ReplaceAllString(m[2], ""))
	if title == "" {
		title = "Chart"
	}

	labelsRaw, ok := parseList(m[3])
	if !ok {
		log.Printf("[survey][charts] unparsable LABELS for %q: %s", title, m[3])
		return answer.ChartSeries{}, false
	}
	dataRaw, ok := parseList(m[4])
	if !ok {
		log.Printf("[survey][charts] unparsable DATA for %q: %s", title, m[4])
		return answer.ChartSeries{}, false
	}

	labels := make([]string, 0, len(labelsRaw))
	for _, l := range labelsRaw {
		labels = append(labels, strings.TrimSpace(toLabel(l)))
	}

	datasets, ok := buildDatasets(title, len(labels), dataRaw)
	if !ok {
		return answer.ChartSeries{}, false
	}

	return answer.ChartSeries{
		Type:     chartType,
		Title:    title,
		Labels:   labels,
		Datasets: datasets,
		Source:   strings.TrimSpace(m[5]),
	}, true
}

// parseList decodes a bracketed list. Model output is frequently
// almost-JSON (single quotes, trailing commas), so a repair pass runs
// before giving up.
func parseList(raw string) ([]any, bool) {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items, true
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &items); err != nil {
		return nil, false
	}
	return items, true
}

// buildDatasets accepts a flat list of points (one series) or a list of
// lists (multi-series with synthesized labels). Validation is all-or-nothing:
// a single uncoercible point, or any series whose length differs from the
// label count, invalidates the entire directive.
func buildDatasets(title string, labelCount int, dataRaw []any) ([]answer.ChartDataset, bool) {
	if len(dataRaw) > 0 {
		if _, nested := dataRaw[0].([]any); nested {
			datasets := make([]answer.ChartDataset, 0, len(dataRaw))
			for i, item := range dataRaw {
				sub, ok := item.([]any)
				if !ok {
					log.Printf("[survey][charts] mixed nesting in DATA for %q, directive dropped", title)
					return nil, false
				}
				points, ok := coercePoints(sub)
				if !ok {
					log.Printf("[survey][charts] bad point in series %d for %q, directive dropped", i+1, title)
					return nil, false
				}
				if len(points) != labelCount {
					log.Printf("[survey][charts] series %d length %d != labels %d for %q, directive dropped",
						i+1, len(points), labelCount, title)
					return nil, false
				}
				datasets = append(datasets, answer.ChartDataset{
					Label: "Series " + strconv.Itoa(i+1) + " for " + title,
					Data:  points,
				})
			}
			return datasets, true
		}
	}
	points, ok := coercePoints(dataRaw)
	if !ok {
		log.Printf("[survey][charts] bad point for %q, directive dropped", title)
		return nil, false
	}
	if len(points) != labelCount {
		log.Printf("[survey][charts] data length %d != labels %d for %q, directive dropped",
			len(points), labelCount, title)
		return nil, false
	}
	return []answer.ChartDataset{{Label: title, Data: points}}, true
}

func coercePoints(items []any) ([]float64, bool) {
	points := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := coercePoint(item)
		if !ok {
			return nil, false
		}
		points = append(points, f)
	}
	return points, true
}

// coercePoint accepts numbers as-is and strings after stripping percent
// signs and anything that is not part of a float literal.
func coercePoint(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		cleaned := strings.ReplaceAll(t, "%", "")
		var b strings.Builder
		for _, r := range cleaned {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == 'e' || r == 'E' {
				b.WriteRune(r)
			}
		}
		f, err := strconv.ParseFloat(b.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toLabel(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	b, _ := json.Marshal(v)
	return string(b)
}
