package survey

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"medassist-backend/answer"
)

// Report is a generated survey report for one area plus the charts parsed
// out of it. FullTextForFollowUp keeps the unmodified model text so follow-up
// questions can quote numbers the markdown cleanup may have dropped.
type Report struct {
	ReportID            string               `json:"report_id"`
	AreaName            string               `json:"area_name"`
	FullReportMarkdown  string               `json:"full_report_markdown"`
	Charts              []answer.ChartSeries `json:"graphs_data"`
	FullTextForFollowUp string               `json:"-"`
	GeneratedAt         time.Time            `json:"generated_at"`
}

// ReportID hashes the request parameters into a stable cache key. Map
// iteration order does not matter: json.Marshal sorts object keys.
func ReportID(params map[string]any) string {
	b, err := json.Marshal(params)
	if err != nil {
		b = []byte("{}")
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])[:16]
}
