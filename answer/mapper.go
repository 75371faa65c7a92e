package answer

import (
	"encoding/json"
	"log"
	"strconv"
)

// Ordered alias tables per canonical field. The prompt asks for the first key
// but the model routinely answers with one of the fallbacks instead, so each
// table is evaluated in priority order.
var (
	answerAliases    = []string{"answer_markdown", "summary", "answer"}
	tentativeAliases = []string{"disease_identification", "tentative_identification"}
)

// FromJSONObject maps a decoded JSON object onto a CanonicalAnswer. Missing or
// malformed fields are skipped, list items that are not objects are dropped
// item by item, and no per-item conversion error ever crosses this boundary.
func FromJSONObject(obj map[string]any) *CanonicalAnswer {
	out := New("")
	if s, ok := firstString(obj, answerAliases); ok {
		out.AnswerText = s
	}
	if f, ok := firstString(obj, []string{"answer_format"}); ok && (f == FormatMarkdown || f == FormatText) {
		out.AnswerFormat = f
	}
	if s, ok := firstString(obj, tentativeAliases); ok {
		out.TentativeIdentification = s
	}
	if qs := stringList(obj["follow_up_questions"]); len(qs) > 0 {
		if len(qs) > MaxFollowUps {
			qs = qs[:MaxFollowUps]
		}
		out.FollowUpQuestions = qs
	}
	if steps := stringList(obj["next_steps"]); len(steps) > 0 {
		out.NextSteps = steps
	}
	out.Schemes = decodeList[SchemeInfo](obj["government_schemes"], "government_schemes")
	out.DoctorRecommendations = decodeList[DoctorRec](obj["doctor_recommendations"], "doctor_recommendations")
	for _, c := range decodeList[ChartSeries](obj["graphs_data"], "graphs_data") {
		if clean, ok := SanitizeChart(c); ok {
			out.Charts = append(out.Charts, clean)
		}
	}
	if m, ok := obj["extracted_medical_info"].(map[string]any); ok && len(m) > 0 {
		out.MedicalInfo = m
	}
	return out
}

// decodeList converts a list-valued field into typed sub-entities, item by
// item. Non-object items and items that fail to decode are dropped; a single
// bad entry never aborts the remaining valid ones.
func decodeList[T any](v any, field string) []T {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []T
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			log.Printf("[answer][mapper] %s[%d] is not an object, dropping item", field, i)
			continue
		}
		raw, err := json.Marshal(m)
		if err != nil {
			continue
		}
		var t T
		if err := json.Unmarshal(raw, &t); err != nil {
			log.Printf("[answer][mapper] %s[%d] failed to decode: %v", field, i, err)
			continue
		}
		out = append(out, t)
	}
	return out
}

func firstString(obj map[string]any, aliases []string) (string, bool) {
	for _, key := range aliases {
		if s := toString(obj[key]); s != "" {
			return s, true
		}
	}
	return "", false
}

// stringList flattens a JSON array into strings, stringifying numbers and
// skipping anything else.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s := toString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}
