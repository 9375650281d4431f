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
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/xache-protocol/xache-go/pkg/fingerprint"
)

// DefaultLimit is the number of matches Probe returns when Options.Limit is 0.
const DefaultLimit = 10

// Index stores fingerprints by memory id in SQLite and answers
// similarity probes against them.
type Index struct {
	db  *sql.DB
	now func() time.Time
}

// Options narrows a probe.
type Options struct {
	Limit    int
	MinScore float64
	Category fingerprint.Category

	// IDPrefix restricts matches to memory ids starting with it.
	IDPrefix string
}

// Match is one probe result.
type Match struct {
	MemoryID     string
	Score        float64
	TopicOverlap int
	Category     fingerprint.Category
}

// Open opens (or creates) an index at path.
// Pass ":memory:" for an in-memory index (useful for tests).
func Open(path string) (*Index, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS fingerprints (
		memory_id TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		category TEXT NOT NULL,
		t0 INTEGER NOT NULL,
		t1 INTEGER NOT NULL,
		t2 INTEGER NOT NULL,
		t3 INTEGER NOT NULL,
		embedding BLOB NOT NULL,
		concepts TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	for _, col := range []string{"t0", "t1", "t2", "t3"} {
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS fingerprints_` + col + ` ON fingerprints (` + col + `)`); err != nil {
			db.Close()
			return nil, fmt.Errorf("create index: %w", err)
		}
	}

	return &Index{db: db, now: time.Now}, nil
}

// Put stores fp under memoryID, replacing any previous entry.
func (x *Index) Put(ctx context.Context, memoryID string, fp *fingerprint.Fingerprint) error {
	if memoryID == "" {
		return errors.New("memory id cannot be empty")
	}
	if fp == nil {
		return errors.New("fingerprint cannot be nil")
	}
	concepts, err := json.Marshal(fp.Concepts)
	if err != nil {
		return fmt.Errorf("encode concepts: %w", err)
	}

	_, err = x.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fingerprints
			(memory_id, version, category, t0, t1, t2, t3, embedding, concepts, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		memoryID, fp.Version, string(fp.Category),
		fp.TopicHashes[0], fp.TopicHashes[1], fp.TopicHashes[2], fp.TopicHashes[3],
		encodeEmbedding(fp.Embedding), string(concepts), x.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", memoryID, err)
	}
	return nil
}

// Get returns the fingerprint stored under memoryID. Returns (nil, false, nil)
// if there is none.
func (x *Index) Get(ctx context.Context, memoryID string) (*fingerprint.Fingerprint, bool, error) {
	row := x.db.QueryRowContext(ctx,
		`SELECT version, category, t0, t1, t2, t3, embedding, concepts
			FROM fingerprints WHERE memory_id = ?`, memoryID)

	fp, err := scanFingerprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", memoryID, err)
	}
	return fp, true, nil
}

// Delete removes the entry for memoryID. Deleting a missing id is not an error.
func (x *Index) Delete(ctx context.Context, memoryID string) error {
	_, err := x.db.ExecContext(ctx, `DELETE FROM fingerprints WHERE memory_id = ?`, memoryID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", memoryID, err)
	}
	return nil
}

// Count returns the number of stored fingerprints.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fingerprints`).Scan(&n)
	return n, err
}

// Probe returns stored fingerprints that share at least one topic hash with
// fp, ranked by embedding cosine similarity. Ties are broken by memory id.
func (x *Index) Probe(ctx context.Context, fp *fingerprint.Fingerprint, opts Options) ([]Match, error) {
	if fp == nil {
		return nil, errors.New("fingerprint cannot be nil")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	topics := make([]any, 0, fingerprint.NumTopics)
	for _, t := range fp.TopicHashes {
		topics = append(topics, t)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(topics)), ",")

	var clauses []string
	args := []any{fp.Version}
	for _, col := range []string{"t0", "t1", "t2", "t3"} {
		clauses = append(clauses, col+" IN ("+placeholders+")")
		args = append(args, topics...)
	}
	query := `SELECT memory_id, version, category, t0, t1, t2, t3, embedding, concepts
		FROM fingerprints WHERE version = ? AND (` + strings.Join(clauses, " OR ") + `)`
	if opts.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(opts.Category))
	}
	if opts.IDPrefix != "" {
		query += ` AND substr(memory_id, 1, ?) = ?`
		args = append(args, utf8.RuneCountInString(opts.IDPrefix), opts.IDPrefix)
	}

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var memoryID string
		candidate, err := scanFingerprint(rows, &memoryID)
		if err != nil {
			return nil, fmt.Errorf("probe: %w", err)
		}
		score := fingerprint.Cosine(fp, candidate)
		if score < opts.MinScore {
			continue
		}
		matches = append(matches, Match{
			MemoryID:     memoryID,
			Score:        score,
			TopicOverlap: fingerprint.TopicOverlap(fp, candidate),
			Category:     candidate.Category,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].MemoryID < matches[j].MemoryID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close closes the underlying SQLite database.
func (x *Index) Close() error {
	return x.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanFingerprint reads the fingerprint columns, preceded by any extra
// destinations.
func scanFingerprint(s scanner, extra ...any) (*fingerprint.Fingerprint, error) {
	var (
		fp        fingerprint.Fingerprint
		category  string
		embedding []byte
		concepts  string
	)
	dest := append(extra,
		&fp.Version, &category,
		&fp.TopicHashes[0], &fp.TopicHashes[1], &fp.TopicHashes[2], &fp.TopicHashes[3],
		&embedding, &concepts,
	)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	fp.Category = fingerprint.Category(category)
	vec, err := decodeEmbedding(embedding)
	if err != nil {
		return nil, err
	}
	fp.Embedding = vec
	if err := json.Unmarshal([]byte(concepts), &fp.Concepts); err != nil {
		return nil, fmt.Errorf("decode concepts: %w", err)
	}
	if fp.Concepts == nil {
		fp.Concepts = []string{}
	}
	return &fp, nil
}

func encodeEmbedding(v [fingerprint.EmbeddingDim]float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(f))
	}
	return buf
}

func decodeEmbedding(b []byte) ([fingerprint.EmbeddingDim]float64, error) {
	var v [fingerprint.EmbeddingDim]float64
	if len(b) != 8*len(v) {
		return v, fmt.Errorf("embedding is %d bytes, want %d", len(b), 8*len(v))
	}
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return v, nil
}
