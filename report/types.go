// Package report parses the heading-delimited natural-language analysis the
// model produces for uploaded lab reports into typed parameters and
// abnormalities, inferring status and severity where the text omits them.
package report

// Status of a single measured parameter.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusAbnormal   Status = "abnormal"
	StatusBorderline Status = "borderline"
	StatusUnknown    Status = "unknown"
)

// Severity estimated for an abnormality from keyword presence.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityUnknown  Severity = "unknown"
)

// OverallStatus of the whole report. StatusError is reserved for upstream
// failures and set by callers, never inferred here.
type OverallStatus string

const (
	OverallNormal   OverallStatus = "normal"
	OverallAbnormal OverallStatus = "abnormal"
	OverallNoData   OverallStatus = "nodata"
	OverallError    OverallStatus = "error"
)

// Parameter is one measured lab value. Name is never the literal token
// "Reference" (a known false match against range headers).
type Parameter struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	ReferenceRange string `json:"reference_range"`
	Status         Status `json:"status"`
}

// Abnormality is one finding described in prose.
type Abnormality struct {
	ParameterName     string   `json:"parameter_name"`
	Description       string   `json:"description"`
	ObservedValue     string   `json:"observed_value,omitempty"`
	EstimatedSeverity Severity `json:"estimated_severity"`
	Recommendation    string   `json:"recommendation"`
}

// StructuredAnalysis is the parsed report. OtherDetails records lines that
// matched no grammar so nothing is discarded silently.
type StructuredAnalysis struct {
	OverallStatus   OverallStatus `json:"overall_status"`
	Summary         string        `json:"summary"`
	Parameters      []Parameter   `json:"parameters"`
	Abnormalities   []Abnormality `json:"abnormalities"`
	Recommendations []string      `json:"recommendations"`
	FollowUp        string        `json:"follow_up"`
	OtherDetails    []string      `json:"other_details,omitempty"`
}

const (
	defaultSummary        = "Summary not provided or section not found."
	defaultFollowUp       = "Consult with healthcare provider for further guidance."
	defaultRecommendation = "Consult healthcare provider."
	defaultAbnormalityRec = "Consult healthcare provider for detailed evaluation."

	// RangeNotSpecified is the sentinel used when a parameter carries no
	// usable reference range.
	RangeNotSpecified = "Not specified"
)

// ErrorAnalysis builds the degraded structure recorded when the upstream call
// or file processing failed outright.
func ErrorAnalysis(msg string) *StructuredAnalysis {
	return &StructuredAnalysis{
		OverallStatus:   OverallError,
		Summary:         msg,
		Parameters:      []Parameter{},
		Abnormalities:   []Abnormality{},
		Recommendations: []string{"Retry or consult manually."},
		FollowUp:        "Consult provider; analysis failed.",
	}
}
