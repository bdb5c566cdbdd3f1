package baseline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varalys/fic/internal/types"
)

func fixedStore(path string, at time.Time) *Store {
	s := NewStore(path)
	s.now = func() time.Time { return at }
	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)
	s := fixedStore(filepath.Join(dir, "baseline.json"), at)
	entries := types.Entries{"a.txt": "h1", "sub/b.txt": "h2"}

	saved, err := s.Save(entries, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.FileCount)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, entries, got.Entries)
	assert.Equal(t, 2, got.FileCount)
	assert.Equal(t, dir, got.RootPath)
	assert.True(t, at.Equal(got.CreatedAt), "created %v want %v", got.CreatedAt, at)
	assert.Equal(t, "2026-03-04 05:06:07", got.Timestamp())
}

func TestSave_WireFormat(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "baseline.json")
	s := fixedStore(p, time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local))
	_, err := s.Save(types.Entries{"a.txt": "abc"}, dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "2026-01-02 03:04:05", doc["timestamp"])
	assert.Equal(t, dir, doc["directory"])
	assert.Equal(t, float64(1), doc["file_count"])
	assert.Equal(t, map[string]any{"a.txt": "abc"}, doc["hashes"])
	assert.Len(t, doc, 4)
}

func TestSave_OverwritesWholesale(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "baseline.json"))
	_, err := s.Save(types.Entries{"old.txt": "1", "keep.txt": "2"}, dir)
	require.NoError(t, err)
	_, err = s.Save(types.Entries{"new.txt": "3"}, dir)
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, types.Entries{"new.txt": "3"}, got.Entries)
}

func TestSave_EmptyEntries(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "baseline.json"))
	_, err := s.Save(nil, dir)
	require.NoError(t, err)
	got, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, got.Entries)
	assert.Empty(t, got.Entries)
}

func TestLoad_NotFound(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "baseline.json"))
	assert.False(t, s.Exists())
	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_Corrupt(t *testing.T) {
	cases := map[string]string{
		"syntax":          `{"timestamp": "2026-01-01 00:00:00",`,
		"wrong type":      `{"timestamp":"2026-01-01 00:00:00","directory":"/x","file_count":1,"hashes":["a"]}`,
		"missing hashes":  `{"timestamp":"2026-01-01 00:00:00","directory":"/x","file_count":0}`,
		"missing stamp":   `{"directory":"/x","file_count":0,"hashes":{}}`,
		"missing dir":     `{"timestamp":"2026-01-01 00:00:00","file_count":0,"hashes":{}}`,
		"missing count":   `{"timestamp":"2026-01-01 00:00:00","directory":"/x","hashes":{}}`,
		"bad timestamp":   `{"timestamp":"yesterday","directory":"/x","file_count":0,"hashes":{}}`,
		"not an object":   `[]`,
		"null hashes map": `{"timestamp":"2026-01-01 00:00:00","directory":"/x","file_count":0,"hashes":null}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "baseline.json")
			require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
			_, err := NewStore(p).Load()
			var ce *CorruptError
			require.True(t, errors.As(err, &ce), "expected CorruptError, got %v", err)
			assert.Equal(t, p, ce.Path)
		})
	}
}

func TestLoad_TrustsContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "baseline.json")
	body := `{"timestamp":"2026-01-01 00:00:00","directory":"/x","file_count":99,"hashes":{"a":"not-hex"}}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	got, err := NewStore(p).Load()
	require.NoError(t, err)
	assert.Equal(t, 99, got.FileCount)
	assert.Equal(t, "not-hex", got.Entries["a"])
}

func TestSave_WriteErrorKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "baseline.json")
	s := NewStore(p)
	_, err := s.Save(types.Entries{"a": "1"}, dir)
	require.NoError(t, err)

	// the parent of this path is a regular file, so the write must fail
	bad := NewStore(filepath.Join(p, "nested.json"))
	_, err = bad.Save(types.Entries{"b": "2"}, dir)
	var we *WriteError
	require.True(t, errors.As(err, &we), "expected WriteError, got %v", err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, types.Entries{"a": "1"}, got.Entries)
}
