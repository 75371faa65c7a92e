package answer

// Canonical output of the response-normalization pipeline. Field names on the
// wire match what the frontend already consumes, so the JSON tags mirror the
// model's requested keys rather than Go conventions.

const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// MaxFollowUps caps follow-up suggestion lists regardless of how many the
// model volunteers.
const MaxFollowUps = 2

// MaxChartLabels caps chart label/data arrays; longer arrays are truncated in
// lockstep so the length invariant survives.
const MaxChartLabels = 15

// SchemeInfo describes a government health scheme surfaced for the user's region.
type SchemeInfo struct {
	Name           string `json:"name"`
	RegionSpecific string `json:"region_specific,omitempty"`
	Description    string `json:"description,omitempty"`
	URL            string `json:"url,omitempty"`
	SourceInfo     string `json:"source_info,omitempty"`
}

// DoctorRec is a suggested specialty to consult, with the model's reasoning.
type DoctorRec struct {
	Specialty string `json:"specialty"`
	Reason    string `json:"reason,omitempty"`
}

// ChartDataset is one numeric series of a chart. len(Data) == len(ChartSeries.Labels)
// always holds for values that reach the caller.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartSeries is a renderable chart: type, title, x labels and one or more datasets.
type ChartSeries struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
	Source   string         `json:"source,omitempty"`
}

// CanonicalAnswer is the normalized result handed to the history store and the
// presentation layer. Error being set does not forbid AnswerText being populated;
// partial results are always preferred over total failure.
type CanonicalAnswer struct {
	AnswerText              string         `json:"answer"`
	AnswerFormat            string         `json:"answer_format"`
	FollowUpQuestions       []string       `json:"follow_up_questions,omitempty"`
	TentativeIdentification string         `json:"disease_identification,omitempty"`
	NextSteps               []string       `json:"next_steps,omitempty"`
	Schemes                 []SchemeInfo   `json:"government_schemes,omitempty"`
	DoctorRecommendations   []DoctorRec    `json:"doctor_recommendations,omitempty"`
	Charts                  []ChartSeries  `json:"graphs_data,omitempty"`
	MedicalInfo             map[string]any `json:"extracted_medical_info,omitempty"`
	Error                   string         `json:"error,omitempty"`
}

// New returns a markdown answer around the given text.
func New(text string) *CanonicalAnswer {
	return &CanonicalAnswer{AnswerText: text, AnswerFormat: FormatMarkdown}
}
