package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/competition-engine/models"
)

type memoryStore struct {
	base    string
	objects map[string][]byte
	failing bool
}

func (m *memoryStore) Put(_ context.Context, key, _ string, body io.Reader) error {
	if m.failing {
		return errors.New("bucket unavailable")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *memoryStore) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) PublicURL(key string) string {
	return publicURL(m.base, key)
}

func TestExportWritesSnapshot(t *testing.T) {
	store := &memoryStore{base: "https://cdn.example.com/engine", objects: map[string][]byte{}}
	exp := &bucketExporter{store: store, now: func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }}

	run := &models.Tournament{ID: 12, Name: "winter cup", Format: models.FormatSwiss, Version: 9}
	rows := []models.Standing{{Place: 1, PlayerID: 3, Score: 4}, {Place: 2, PlayerID: 1, Score: 3}}

	loc, err := exp.Export(context.Background(), run, rows)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/engine/standings/run_12.json", loc)

	var got StandingsSnapshot
	require.NoError(t, json.Unmarshal(store.objects[StandingsKey(12)], &got))
	assert.Equal(t, 9, got.Version)
	assert.Equal(t, rows, got.Standings)
	assert.Equal(t, models.FormatSwiss, got.Format)

	require.NoError(t, exp.Withdraw(context.Background(), 12))
	assert.Empty(t, store.objects)
}

func TestExportLocationComesFromStore(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}}
	exp := NewStandingsExporter(store)

	loc, err := exp.Export(context.Background(), &models.Tournament{ID: 4}, nil)
	require.NoError(t, err)
	assert.Empty(t, loc)
	assert.Contains(t, store.objects, StandingsKey(4))

	store.base = "https://ledger.example.org/"
	loc, err = exp.Export(context.Background(), &models.Tournament{ID: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://ledger.example.org/standings/run_4.json", loc)
}

func TestExportPropagatesUploadFailure(t *testing.T) {
	exp := NewStandingsExporter(&memoryStore{objects: map[string][]byte{}, failing: true})
	_, err := exp.Export(context.Background(), &models.Tournament{ID: 1}, nil)
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{base: "https://cdn.example.com", key: "a/b.json", want: "https://cdn.example.com/a/b.json"},
		{base: "https://cdn.example.com/pub/", key: "/a.json", want: "https://cdn.example.com/pub/a.json"},
		{base: "", key: "a.json", want: ""},
		{base: "https://cdn.example.com", key: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, publicURL(tt.base, tt.key))
	}
	assert.False(t, R2Config{BucketName: "b"}.Enabled())
}
