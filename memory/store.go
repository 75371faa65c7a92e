// Package memory persists per-user interaction history and renders the
// conversation context string sent back to the model.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Interaction is one question/answer exchange in a given mode.
type Interaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Mode      string    `json:"mode"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	AddInteraction(ctx context.Context, it Interaction) error
	History(ctx context.Context, userID, mode string, limit int) ([]Interaction, error)
	UpdateSummary(ctx context.Context, userID, summary string) error
	GetSummary(ctx context.Context, userID string) (string, error)
	ContextForMode(ctx context.Context, userID, mode string) (string, error)
	ClearAll(ctx context.Context, userID string) error
}

// Retention caps per mode. Older rows beyond the cap are dropped on insert.
var retention = map[string]int{
	"qna":               50,
	"symptoms":          20,
	"report_analysis":   10,
	"report_generation": 50,
}

func retentionFor(mode string) int {
	if n, ok := retention[mode]; ok {
		return n
	}
	return 50
}

const contextSnippets = 3

// BuildContext renders the context block for the next model call: the last
// few exchanges in the mode, truncated, plus the running medical summary for
// the clinical modes. Q&A context stays summary-free so casual questions do
// not drag prior diagnoses into every answer.
func BuildContext(history []Interaction, summary, mode string) string {
	var b strings.Builder
	n := len(history)
	start := 0
	if n > contextSnippets {
		start = n - contextSnippets
	}
	for _, it := range history[start:] {
		fmt.Fprintf(&b, "Previous question: %s\nPrevious answer: %s\n", truncate(it.Question, 200), truncate(it.Answer, 400))
	}
	if mode != "qna" && strings.TrimSpace(summary) != "" {
		fmt.Fprintf(&b, "Known medical context for this user: %s\n", truncate(summary, 600))
	}
	if b.Len() == 0 {
		return ""
	}
	return "--- Conversation context ---\n" + b.String() + "--- End of context ---"
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
