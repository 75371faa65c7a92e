package report

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// The model is prompted to answer under four ALL-CAPS headings in any order;
// each section runs until the next recognized heading or end of text.
var headingRe = regexp.MustCompile(`(?i)(GENERAL_SUMMARY|IDENTIFIED_PARAMETERS|OBSERVED_ABNORMALITIES|GENERAL_RECOMMENDATIONS)\s*:`)

var (
	paramLineRe = regexp.MustCompile(`(?i)^\s*[-*]?\s*(?P<name>[A-Za-z][A-Za-z0-9\s/\-().%μ]*?):\s*(?P<value>[0-9.,<>]+\s*[\w/%μ]*)(?:\s*\((?P<ref>[^)]*)\))?(?:\s*-\s*(?P<status>[A-Za-z\s]+))?`)
	refPrefixRe = regexp.MustCompile(`(?i)^(?:Reference Range|Reference|Normal):\s*(.*)`)
	valueNumRe  = regexp.MustCompile(`^([<>]?\s*[0-9.]+)`)
	rangeRe     = regexp.MustCompile(`^([0-9.]+)\s*-\s*([0-9.]+)`)

	abnColonRe    = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9\s/\-()]{2,})\s*:\s*(.+)`)
	abnVerbRe     = regexp.MustCompile(`(?i)^([A-Za-z][A-Za-z0-9\s/\-()]{2,})\s+(?:is|are|shows|was|were)\s+(.+)`)
	observedRe    = regexp.MustCompile(`([<>]?\s*[0-9.,]+\s*[\w/%μ]+)`)
	embeddedRecRe = regexp.MustCompile(`(?i)(?:Recommendation|Suggests|Consider|Advise[ds]?):\s*(.+)`)
	indicatesRe   = regexp.MustCompile(`(?i)\.\s*This indicates.*$`)
	sevParenRe    = regexp.MustCompile(`(?i)\s*\((mild|moderate|severe|unknown|low|high|abnormal|normal)\)`)

	bulletRe = regexp.MustCompile(`^\s*[-*]\s*`)
)

var attentionKeywords = []string{
	"abnormal", "elevated", "decreased", "concerning",
	"requires attention", "follow-up needed", "investigation",
}

// Parse splits the model text into the four sections and runs the per-section
// grammars. It always returns a usable structure: missing sections fall back
// to defaults and unmatched lines are preserved in OtherDetails.
func Parse(text string) *StructuredAnalysis {
	sa := &StructuredAnalysis{
		Summary:         defaultSummary,
		Parameters:      []Parameter{},
		Abnormalities:   []Abnormality{},
		Recommendations: []string{defaultRecommendation},
		FollowUp:        defaultFollowUp,
	}

	secs := splitSections(text)

	if s, ok := secs["GENERAL_SUMMARY"]; ok && s != "" {
		sa.Summary = s
	}

	if body, ok := secs["IDENTIFIED_PARAMETERS"]; ok {
		sa.Parameters = parseParameters(body, &sa.OtherDetails)
	} else {
		log.Printf("[report][sections] IDENTIFIED_PARAMETERS section not found")
	}

	if body, ok := secs["OBSERVED_ABNORMALITIES"]; ok {
		sa.Abnormalities = parseAbnormalities(body, &sa.OtherDetails)
	} else {
		log.Printf("[report][sections] OBSERVED_ABNORMALITIES section not found")
	}

	if body, ok := secs["GENERAL_RECOMMENDATIONS"]; ok {
		if recs := parseRecommendations(body); len(recs) > 0 {
			sa.Recommendations = recs
		}
	} else {
		log.Printf("[report][sections] GENERAL_RECOMMENDATIONS section not found")
	}

	sa.OverallStatus = deriveOverallStatus(sa)
	return sa
}

// splitSections maps heading name to section body. The first occurrence of a
// heading wins if the model repeats one.
func splitSections(text string) map[string]string {
	locs := headingRe.FindAllStringSubmatchIndex(text, -1)
	out := make(map[string]string, len(locs))
	for i, loc := range locs {
		name := strings.ToUpper(text[loc[2]:loc[3]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, seen := out[name]; !seen {
			out[name] = strings.TrimSpace(text[loc[1]:end])
		}
	}
	return out
}

// paramLine is the typed intermediate for the parameter grammar, one value
// per named capture group.
type paramLine struct {
	name       string
	value      string
	refInfo    string
	statusText string
}

func matchParamLine(line string) (paramLine, bool) {
	m := paramLineRe.FindStringSubmatch(line)
	if m == nil {
		return paramLine{}, false
	}
	var pl paramLine
	for i, group := range paramLineRe.SubexpNames() {
		switch group {
		case "name":
			pl.name = strings.TrimSpace(m[i])
		case "value":
			pl.value = strings.TrimSpace(m[i])
		case "ref":
			pl.refInfo = strings.TrimSpace(m[i])
		case "status":
			pl.statusText = strings.TrimSpace(m[i])
		}
	}
	return pl, true
}

func parseParameters(body string, otherDetails *[]string) []Parameter {
	params := []Parameter{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pl, ok := matchParamLine(line)
		if !ok {
			lower := strings.ToLower(line)
			if lower != "reference" && lower != "reference:" {
				*otherDetails = append(*otherDetails, "Unmatched parameter line: "+line)
			}
			continue
		}
		if strings.EqualFold(pl.name, "reference") {
			// Known false match against range header rows.
			log.Printf("[report][params] skipped 'Reference' pseudo-parameter: %q", line)
			*otherDetails = append(*otherDetails, "Skipped 'Reference' as parameter name: "+line)
			continue
		}
		refRange := normalizeReference(pl.refInfo)
		status := statusFromText(pl.statusText)
		if (status == StatusUnknown || status == StatusNormal) && refRange != RangeNotSpecified {
			status = inferStatusFromRange(pl.value, refRange, status)
		}
		params = append(params, Parameter{
			Name:           pl.name,
			Value:          pl.value,
			ReferenceRange: refRange,
			Status:         status,
		})
	}
	return params
}

// normalizeReference strips the "Reference Range:"/"Reference:"/"Normal:"
// prefixes the model sometimes embeds in the parenthetical and collapses
// placeholders to the sentinel.
func normalizeReference(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := refPrefixRe.FindStringSubmatch(raw); m != nil {
		raw = strings.TrimSpace(m[1])
	}
	switch strings.ToLower(raw) {
	case "", "not specified", "na", "n/a":
		return RangeNotSpecified
	}
	return raw
}

func statusFromText(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusUnknown
	}
	// Abnormal keywords first: "abnormal" contains "normal".
	for _, kw := range []string{"high", "low", "abnormal", "elevated", "decreased", "positive", "critical", "outside range", "out of range"} {
		if strings.Contains(s, kw) {
			return StatusAbnormal
		}
	}
	if strings.Contains(s, "borderline") {
		return StatusBorderline
	}
	if strings.Contains(s, "normal") || strings.Contains(s, "within range") {
		return StatusNormal
	}
	return StatusUnknown
}

// inferStatusFromRange compares the value's leading number against a low-high
// range. A "<" bound means the true value is below the printed number, so it
// cannot be flagged low; ">" the converse. Unparsable input keeps the current
// status.
func inferStatusFromRange(value, refRange string, current Status) Status {
	m := valueNumRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return current
	}
	tok := m[1]
	isLess := strings.Contains(tok, "<")
	isGreater := strings.Contains(tok, ">")
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.Trim(tok, "<> ")), 64)
	if err != nil {
		return current
	}
	rm := rangeRe.FindStringSubmatch(strings.TrimSpace(refRange))
	if rm == nil {
		return current
	}
	low, err1 := strconv.ParseFloat(rm[1], 64)
	high, err2 := strconv.ParseFloat(rm[2], 64)
	if err1 != nil || err2 != nil {
		return current
	}
	if (!isLess && f < low) || (!isGreater && f > high) {
		return StatusAbnormal
	}
	if current == StatusUnknown {
		return StatusNormal
	}
	return current
}

// abnormalityLine is the typed intermediate for the abnormality grammars.
type abnormalityLine struct {
	name        string
	description string
}

// matchAbnormalityLine tries the two explicit grammars ("Name: desc" and
// "Name is/are/shows/was/were desc") before the General Observation fallback.
func matchAbnormalityLine(entry string) (abnormalityLine, bool) {
	if m := abnColonRe.FindStringSubmatch(entry); m != nil {
		return abnormalityLine{name: strings.TrimSpace(m[1]), description: strings.TrimSpace(m[2])}, true
	}
	if m := abnVerbRe.FindStringSubmatch(entry); m != nil {
		return abnormalityLine{name: strings.TrimSpace(m[1]), description: strings.TrimSpace(m[2])}, true
	}
	if len(entry) > 10 {
		return abnormalityLine{name: "General Observation", description: entry}, true
	}
	return abnormalityLine{}, false
}

func parseAbnormalities(body string, otherDetails *[]string) []Abnormality {
	abns := []Abnormality{}
	for _, raw := range strings.Split(body, "\n") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		entry = strings.TrimSpace(bulletRe.ReplaceAllString(entry, ""))

		al, ok := matchAbnormalityLine(entry)
		if !ok {
			*otherDetails = append(*otherDetails, "Unparsed short abnormality line: "+entry)
			continue
		}
		if strings.EqualFold(al.name, "reference") {
			continue
		}

		severity := severityFromKeywords(al.description)
		observed := ""
		if m := observedRe.FindStringSubmatch(al.description); m != nil {
			observed = strings.TrimSpace(m[1])
		}

		description := al.description
		recommendation := defaultAbnormalityRec
		if loc := embeddedRecRe.FindStringSubmatchIndex(description); loc != nil {
			recommendation = strings.TrimSpace(description[loc[2]:loc[3]])
			description = strings.TrimSpace(description[:loc[0]])
		}

		description = indicatesRe.ReplaceAllString(description, ".")
		description = strings.TrimSpace(sevParenRe.ReplaceAllString(description, ""))
		if description != "" && !strings.HasSuffix(description, ".") {
			description += "."
		}

		abns = append(abns, Abnormality{
			ParameterName:     al.name,
			Description:       description,
			ObservedValue:     observed,
			EstimatedSeverity: severity,
			Recommendation:    recommendation,
		})
	}
	return abns
}

func severityFromKeywords(description string) Severity {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "severe") || strings.Contains(d, "significantly") || strings.Contains(d, "markedly"):
		return SeveritySevere
	case strings.Contains(d, "moderate"):
		return SeverityModerate
	case strings.Contains(d, "mild") || strings.Contains(d, "slight"):
		return SeverityMild
	}
	return SeverityUnknown
}

func parseRecommendations(body string) []string {
	var recs []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "*") {
			continue
		}
		item := strings.Trim(trimmed, "-* ")
		if len(item) > 10 {
			recs = append(recs, item)
		}
	}
	if len(recs) == 0 {
		if body = strings.TrimSpace(body); len(body) > 10 {
			recs = []string{body}
		}
	}
	return recs
}

// deriveOverallStatus never asks the model: any abnormal or borderline
// parameter, any recorded abnormality, or an attention keyword in the summary
// means abnormal; a completely empty parse with the placeholder summary means
// nodata; otherwise normal.
func deriveOverallStatus(sa *StructuredAnalysis) OverallStatus {
	hasAbnormal := len(sa.Abnormalities) > 0
	for _, p := range sa.Parameters {
		if p.Status == StatusAbnormal || p.Status == StatusBorderline {
			hasAbnormal = true
			break
		}
	}
	summaryLower := strings.ToLower(sa.Summary)
	for _, kw := range attentionKeywords {
		if strings.Contains(summaryLower, kw) {
			hasAbnormal = true
			break
		}
	}
	if !hasAbnormal && len(sa.Parameters) == 0 && len(sa.Abnormalities) == 0 && sa.Summary == defaultSummary {
		return OverallNoData
	}
	if hasAbnormal {
		return OverallAbnormal
	}
	return OverallNormal
}
