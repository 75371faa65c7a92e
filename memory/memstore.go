package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is the in-process Store used by tests and storeless deployments.
type MemStore struct {
	mu           sync.Mutex
	interactions map[string][]Interaction // key: userID + "\x00" + mode
	summaries    map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		interactions: make(map[string][]Interaction),
		summaries:    make(map[string]string),
	}
}

func key(userID, mode string) string { return userID + "\x00" + mode }

func (m *MemStore) AddInteraction(_ context.Context, it Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	k := key(it.UserID, it.Mode)
	list := append(m.interactions[k], it)
	if keep := retentionFor(it.Mode); len(list) > keep {
		list = list[len(list)-keep:]
	}
	m.interactions[k] = list
	return nil
}

func (m *MemStore) History(_ context.Context, userID, mode string, limit int) ([]Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.interactions[key(userID, mode)]
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	out := make([]Interaction, len(list))
	copy(out, list)
	return out, nil
}

func (m *MemStore) UpdateSummary(_ context.Context, userID, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[userID] = summary
	return nil
}

func (m *MemStore) GetSummary(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaries[userID], nil
}

func (m *MemStore) ContextForMode(ctx context.Context, userID, mode string) (string, error) {
	history, err := m.History(ctx, userID, mode, contextSnippets)
	if err != nil {
		return "", err
	}
	summary := ""
	if mode != "qna" {
		summary, _ = m.GetSummary(ctx, userID)
	}
	return BuildContext(history, summary, mode), nil
}

func (m *MemStore) ClearAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.interactions {
		if len(k) > len(userID) && k[:len(userID)] == userID && k[len(userID)] == 0 {
			delete(m.interactions, k)
		}
	}
	delete(m.summaries, userID)
	return nil
}
