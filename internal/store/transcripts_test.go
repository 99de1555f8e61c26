package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigtec/agentportal/internal/logging"
)

func testStore(t *testing.T) *TranscriptStore {
	t.Helper()
	db, err := Open(":memory:", logging.New(nil, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTranscriptStore(db)
}

func TestRecordExchange_RoundTrip(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.RecordExchange("agt-1", "what is Go?", "a programming language"))

	entries, err := s.History("agt-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "user", entries[0].Role)
	assert.Equal(t, "what is Go?", entries[0].Content)
	assert.Equal(t, "assistant", entries[1].Role)
	assert.Equal(t, "a programming language", entries[1].Content)

	// Both turns share one exchange id.
	assert.Equal(t, entries[0].ExchangeID, entries[1].ExchangeID)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestHistory_ScopedToAgent(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.RecordExchange("agt-1", "q1", "a1"))
	require.NoError(t, s.RecordExchange("agt-2", "q2", "a2"))

	entries, err := s.History("agt-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "agt-1", e.AgentID)
	}
}

func TestHistory_OrderAndLimit(t *testing.T) {
	s := testStore(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordExchange("agt-1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	entries, err := s.History("agt-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, "q0", entries[0].Content)
	assert.Equal(t, "a2", entries[5].Content)

	limited, err := s.History("agt-1", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "q0", limited[0].Content)
	assert.Equal(t, "a0", limited[1].Content)
}

func TestHistory_EmptyAgent(t *testing.T) {
	s := testStore(t)
	entries, err := s.History("nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	log := logging.New(nil, "silent")

	db, err := Open(path, log)
	require.NoError(t, err)
	require.NoError(t, NewTranscriptStore(db).RecordExchange("agt-1", "q", "a"))
	require.NoError(t, db.Close())

	// Reopening must not re-run migrations or lose data.
	db, err = Open(path, log)
	require.NoError(t, err)
	defer db.Close()

	entries, err := NewTranscriptStore(db).History("agt-1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
