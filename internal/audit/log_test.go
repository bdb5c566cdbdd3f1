package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varalys/fic/internal/compare"
	"github.com/varalys/fic/internal/types"
)

func TestAppendAndLoadHistory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	l := NewLog(p)

	clean := compare.Compare(types.Entries{"a": "1"}, types.Entries{"a": "1"})
	dirty := compare.Compare(types.Entries{"a": "1"}, types.Entries{"a": "2", "b": "3"})
	require.NoError(t, l.Append(NewRecord("/srv", "/etc/b.json", "2026-01-01 00:00:00", clean, time.Second)))
	require.NoError(t, l.Append(NewRecord("/srv", "/etc/b.json", "2026-01-01 00:00:00", dirty, time.Second)))

	recs, err := l.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.False(t, recs[0].Clean, "newest first")
	assert.Equal(t, 1, recs[0].Modified)
	assert.Equal(t, 1, recs[0].Added)
	assert.True(t, recs[1].Clean)
	assert.NotEqual(t, recs[0].Fingerprint, recs[1].Fingerprint)
	_, err = uuid.Parse(recs[0].RunID)
	assert.NoError(t, err)

	st, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}

func TestAppend_AssignsRunID(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "audit.jsonl"))
	require.NoError(t, l.Append(Record{Root: "/x"}))
	recs, err := l.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs[0].RunID)
}

func TestLoadHistory_Missing(t *testing.T) {
	_, err := NewLog(filepath.Join(t.TempDir(), "none.jsonl")).LoadHistory()
	assert.Error(t, err)
}

func TestLoadHistory_SkipsUndecodableLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "audit.jsonl")
	l := NewLog(p)
	require.NoError(t, l.Append(Record{Root: "/first"}))

	// a crash mid-append leaves a truncated line behind
	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("{\"run_id\":\"trunc\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, l.Append(Record{Root: "/second"}))

	recs, err := l.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "/second", recs[0].Root)
	assert.Equal(t, "/first", recs[1].Root)
}
