package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TranscriptEntry is one recorded turn of a chat exchange.
type TranscriptEntry struct {
	ExchangeID string    `json:"exchangeId"`
	AgentID    string    `json:"agentId"`
	Role       string    `json:"role"` // "user" | "assistant"
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TranscriptStore records completed chat exchanges. It sits off the chat
// hot path: the gateway writes an exchange only after the fragment
// stream has ended.
type TranscriptStore struct {
	db *DB
}

// NewTranscriptStore creates a transcript store using the given database.
func NewTranscriptStore(db *DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

// RecordExchange stores one user message and the assistant reply it
// produced, under a fresh exchange id.
func (s *TranscriptStore) RecordExchange(agentID, userMessage, assistantReply string) error {
	exchangeID := uuid.New().String()
	now := time.Now().UTC().Format(time.DateTime)

	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin transcript write: %w", err)
	}

	for _, turn := range []struct {
		role, content string
	}{
		{"user", userMessage},
		{"assistant", assistantReply},
	} {
		if _, err := tx.Exec(
			`INSERT INTO transcripts (exchange_id, agent_id, role, content, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			exchangeID, agentID, turn.role, turn.content, now,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording transcript turn: %w", err)
		}
	}

	return tx.Commit()
}

// History returns the recorded turns for an agent, oldest first, up to
// limit entries (0 means no limit).
func (s *TranscriptStore) History(agentID string, limit int) ([]TranscriptEntry, error) {
	query := `SELECT exchange_id, agent_id, role, content, created_at
		 FROM transcripts WHERE agent_id = ? ORDER BY id`
	args := []any{agentID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transcripts: %w", err)
	}
	defer rows.Close()

	var entries []TranscriptEntry
	for rows.Next() {
		var entry TranscriptEntry
		var createdAt string
		if err := rows.Scan(&entry.ExchangeID, &entry.AgentID, &entry.Role, &entry.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning transcript row: %w", err)
		}
		entry.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
