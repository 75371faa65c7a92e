package report

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResult is the persisted unit for one analyzed report: the raw model
// text kept verbatim next to the structured parse.
type AnalysisResult struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	FileName    string              `json:"file_name"`
	RawAnalysis string              `json:"raw_analysis"`
	Structured  *StructuredAnalysis `json:"structured"`
	CreatedAt   time.Time           `json:"created_at"`
}

func NewAnalysisResult(userID, fileName, rawAnalysis string) *AnalysisResult {
	return &AnalysisResult{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    fileName,
		RawAnalysis: rawAnalysis,
		Structured:  Parse(rawAnalysis),
		CreatedAt:   time.Now().UTC(),
	}
}
