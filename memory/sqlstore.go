package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// SQLStore keeps history in MySQL. Tables are created on startup so a fresh
// database works without a separate migration step.
type SQLStore struct {
	db *sql.DB
}

// NewMySQL opens the connection from DB_* environment variables, creating
// the database itself if it does not exist yet.
func NewMySQL() (*sql.DB, error) {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")

	adminDSN := fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", user, pass, host, port)
	adminDB, err := sql.Open("mysql", adminDSN)
	if err != nil {
		return nil, err
	}
	if err := adminDB.Ping(); err != nil {
		adminDB.Close()
		return nil, err
	}
	if _, err := adminDB.Exec("CREATE DATABASE IF NOT EXISTS `" + name + "` DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		adminDB.Close()
		return nil, err
	}
	adminDB.Close()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, name)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	s := &SQLStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	createInteractions := `
	CREATE TABLE IF NOT EXISTS interactions (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(191) NOT NULL,
		mode VARCHAR(50) NOT NULL,
		question TEXT NOT NULL,
		answer MEDIUMTEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_user_mode (user_id, mode, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := s.db.Exec(createInteractions); err != nil {
		return err
	}
	createSummaries := `
	CREATE TABLE IF NOT EXISTS medical_summaries (
		user_id VARCHAR(191) PRIMARY KEY,
		summary MEDIUMTEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := s.db.Exec(createSummaries); err != nil {
		return err
	}
	return nil
}

func (s *SQLStore) AddInteraction(ctx context.Context, it Interaction) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO interactions (id, user_id, mode, question, answer) VALUES (?, ?, ?, ?, ?)",
		it.ID, it.UserID, it.Mode, it.Question, it.Answer,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	s.trim(ctx, it.UserID, it.Mode)
	return nil
}

// trim enforces the per-mode retention cap. Failures here are not fatal: the
// insert already succeeded and the next insert retries the cleanup.
func (s *SQLStore) trim(ctx context.Context, userID, mode string) {
	keep := retentionFor(mode)
	_, _ = s.db.ExecContext(ctx, `
		DELETE FROM interactions
		WHERE user_id = ? AND mode = ? AND id NOT IN (
			SELECT id FROM (
				SELECT id FROM interactions
				WHERE user_id = ? AND mode = ?
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			) keepers
		)`, userID, mode, userID, mode, keep)
}

func (s *SQLStore) History(ctx context.Context, userID, mode string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = retentionFor(mode)
	}
	// Most recent rows, returned in chronological order.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, mode, question, answer, created_at
		FROM interactions
		WHERE user_id = ? AND mode = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var it Interaction
		if err := rows.Scan(&it.ID, &it.UserID, &it.Mode, &it.Question, &it.Answer, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *SQLStore) UpdateSummary(ctx context.Context, userID, summary string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medical_summaries (user_id, summary) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE summary = VALUES(summary)`, userID, summary)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	return nil
}

func (s *SQLStore) GetSummary(ctx context.Context, userID string) (string, error) {
	var summary string
	err := s.db.QueryRowContext(ctx,
		"SELECT summary FROM medical_summaries WHERE user_id = ?", userID).Scan(&summary)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get summary: %w", err)
	}
	return summary, nil
}

func (s *SQLStore) ContextForMode(ctx context.Context, userID, mode string) (string, error) {
	history, err := s.History(ctx, userID, mode, contextSnippets)
	if err != nil {
		return "", err
	}
	summary := ""
	if mode != "qna" {
		summary, err = s.GetSummary(ctx, userID)
		if err != nil {
			return "", err
		}
	}
	return BuildContext(history, summary, mode), nil
}

func (s *SQLStore) ClearAll(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM interactions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM medical_summaries WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear summary: %w", err)
	}
	return nil
}
