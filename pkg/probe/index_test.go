// Copyright (C) 2025 Xache Protocol
//
// This file is part of xache-go.
//
// xache-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xache-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with xache-go.  If not, see <https://www.gnu.org/licenses/>.

package probe

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xache-protocol/xache-go/pkg/fingerprint"
)

var testKey = make([]byte, fingerprint.AgentKeySize)

func openIndex(t *testing.T) *Index {
	t.Helper()
	x, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { x.Close() })
	return x
}

func mustFingerprint(t *testing.T, content any) *fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.Generate(content, testKey)
	require.NoError(t, err)
	return fp
}

func TestIndexPutGet(t *testing.T) {
	x := openIndex(t)
	ctx := context.Background()
	fp := mustFingerprint(t, "Alice prefers dark mode in the editor")

	require.NoError(t, x.Put(ctx, "mem_1", fp))

	got, found, err := x.Get(ctx, "mem_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, fp.Equal(got))

	n, err := x.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndexGetNotFound(t *testing.T) {
	x := openIndex(t)

	got, found, err := x.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestIndexPutReplaces(t *testing.T) {
	x := openIndex(t)
	ctx := context.Background()

	require.NoError(t, x.Put(ctx, "mem_1", mustFingerprint(t, "first version")))
	second := mustFingerprint(t, "second version entirely")
	require.NoError(t, x.Put(ctx, "mem_1", second))

	got, _, err := x.Get(ctx, "mem_1")
	require.NoError(t, err)
	assert.True(t, second.Equal(got))

	n, err := x.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndexPutRejectsBadInput(t *testing.T) {
	x := openIndex(t)
	ctx := context.Background()

	assert.Error(t, x.Put(ctx, "", mustFingerprint(t, "x")))
	assert.Error(t, x.Put(ctx, "mem_1", nil))
	_, err := x.Probe(ctx, nil, Options{})
	assert.Error(t, err)
}

func TestIndexDelete(t *testing.T) {
	x := openIndex(t)
	ctx := context.Background()

	require.NoError(t, x.Put(ctx, "mem_1", mustFingerprint(t, "to be removed")))
	require.NoError(t, x.Delete(ctx, "mem_1"))
	require.NoError(t, x.Delete(ctx, "mem_1"))

	_, found, err := x.Get(ctx, "mem_1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIndexProbeRanksNearDuplicateFirst(t *testing.T) {
	x := openIndex(t)
	ctx := context.Background()

	require.NoError(t, x.Put(ctx, "dup", mustFingerprint(t, "Alice prefers dark mode in the editor. Alice prefers tea.")))
	require.NoError(t, x.Put(ctx, "near", mustFingerprint(t, "Alice prefers green tea in the morning")))
	require.NoError(t, x.Put(ctx, "far", mustFingerprint(t, "Quarterly revenue grew eleven percent")))

	query := mustFingerprint(t, "Alice prefers dark mode in the editor, and Alice prefers tea")
	matches, err := x.Probe(ctx, query, Options{MinScore: -1})
	require.NoError(t, err)

	require.NotEmpty(t, matches)
	assert.Equal(t, "dup", matches[0].MemoryID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, fingerprint.NumTopics, matches[0].TopicOverlap)
	assert.Equal(t, fingerprint.CategoryPreference, matches[0].Category)

	// No shared topic hash, so the prefilter drops it
	for _, m := range matches {
		assert.NotEqual(t, "far", m.MemoryID)
	}
}

func TestIndexProbeOptions(t *testing.T) {
	x := openIndex(t)
	ctx := context.Background()

	texts := map[string]string{
		"a": "Alice prefers dark mode",
		"b": "Alice prefers dark roast coffee",
		"c": "Alice noticed dark clouds",
	}
	for id, text := range texts {
		require.NoError(t, x.Put(ctx, id, mustFingerprint(t, text)))
	}
	query := mustFingerprint(t, "Alice prefers dark mode")

	t.Run("Limit", func(t *testing.T) {
		matches, err := x.Probe(ctx, query, Options{Limit: 1, MinScore: -1})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "a", matches[0].MemoryID)
	})

	t.Run("Category", func(t *testing.T) {
		matches, err := x.Probe(ctx, query, Options{Category: fingerprint.CategoryObservation, MinScore: -1})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "c", matches[0].MemoryID)
	})

	t.Run("MinScore", func(t *testing.T) {
		matches, err := x.Probe(ctx, query, Options{MinScore: 0.999})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "a", matches[0].MemoryID)
	})

	t.Run("IDPrefix", func(t *testing.T) {
		require.NoError(t, x.Put(ctx, "agent2/a", mustFingerprint(t, "Alice prefers dark mode")))
		defer x.Delete(ctx, "agent2/a")

		matches, err := x.Probe(ctx, query, Options{IDPrefix: "agent2/", MinScore: -1})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "agent2/a", matches[0].MemoryID)
	})

	t.Run("Sorted", func(t *testing.T) {
		matches, err := x.Probe(ctx, query, Options{MinScore: -1})
		require.NoError(t, err)
		require.Len(t, matches, 3)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
	})
}

func TestIndexProbeIgnoresOtherKeys(t *testing.T) {
	x := openIndex(t)
	ctx := context.Background()

	other := make([]byte, fingerprint.AgentKeySize)
	other[31] = 7
	fp, err := fingerprint.Generate("Alice prefers dark mode", other)
	require.NoError(t, err)
	require.NoError(t, x.Put(ctx, "other-agent", fp))

	matches, err := x.Probe(ctx, mustFingerprint(t, "Alice prefers dark mode"), Options{MinScore: -1})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestIndexPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.db")
	ctx := context.Background()
	fp := mustFingerprint(t, "persisted across opens")

	x, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, x.Put(ctx, "mem_1", fp))
	require.NoError(t, x.Close())

	x, err = Open(path)
	require.NoError(t, err)
	defer x.Close()

	got, found, err := x.Get(ctx, "mem_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, fp.Equal(got))
}

func TestEmbeddingRoundTrip(t *testing.T) {
	fp := mustFingerprint(t, "round trip of the embedding blob")

	got, err := decodeEmbedding(encodeEmbedding(fp.Embedding))
	require.NoError(t, err)
	assert.Equal(t, fp.Embedding, got)

	_, err = decodeEmbedding([]byte{1, 2, 3})
	assert.Error(t, err)
}
