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

package subject

import (
	"crypto/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func zeroKey() []byte {
	return make([]byte, AgentKeySize)
}

func seqKey() []byte {
	k := make([]byte, AgentKeySize)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

// Parity vectors shared by every SDK implementation.
func TestDeriveSubjectID_ParityVectors(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
		raw  string
		want string
	}{
		{"zero key user-123", zeroKey(), "user-123", "7bb4ddc8278b598e4a6e2171d97279153b187be7dde79b6e9620f7ece4075a16"},
		{"sequential key user-123", seqKey(), "user-123", "9269db87744e5a0bb04074fb7eab6c1b1292573c6018c50528dae31be890d986"},
		{"empty raw id", zeroKey(), "", "a1de4d656a64571facd109bbcd93f818af4f3510c62584c591860d98194cb15e"},
		{"non-ascii raw id", zeroKey(), "josé@example.com", "7d3bdd928bc7ac481b4f3536b2c95ac1e5313b933373dcfa6bf82ede39d8fcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveSubjectID(tt.key, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveSubjectIDWithDomain(t *testing.T) {
	got, err := DeriveSubjectIDWithDomain(zeroKey(), "user-123", "custom:v2")
	require.NoError(t, err)
	assert.Equal(t, "56149a299f6c07f00649464c7ec42eae9f4922f2bda178fdaaa4f36d95e26ea0", got)

	def, err := DeriveSubjectIDWithDomain(zeroKey(), "user-123", SubjectDomain)
	require.NoError(t, err)
	plain, err := DeriveSubjectID(zeroKey(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, plain, def)
}

func TestDeriveSubjectID_Deterministic(t *testing.T) {
	key := seqKey()
	a, err := DeriveSubjectID(key, "user-123")
	require.NoError(t, err)
	b, err := DeriveSubjectID(key, "user-123")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveSubjectID_KeySensitivity(t *testing.T) {
	k1 := make([]byte, AgentKeySize)
	k2 := make([]byte, AgentKeySize)
	_, err := rand.Read(k1)
	require.NoError(t, err)
	_, err = rand.Read(k2)
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)

	a, err := DeriveSubjectID(k1, "user-123")
	require.NoError(t, err)
	b, err := DeriveSubjectID(k2, "user-123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeriveSubjectID_InputSensitivity(t *testing.T) {
	a, err := DeriveSubjectID(zeroKey(), "user-123")
	require.NoError(t, err)
	b, err := DeriveSubjectID(zeroKey(), "user-124")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeriveSubjectID_InvalidKeyLength(t *testing.T) {
	for _, key := range [][]byte{[]byte("short"), nil, make([]byte, 31), make([]byte, 33), make([]byte, 64)} {
		_, err := DeriveSubjectID(key, "x")
		assert.ErrorIs(t, err, errdefs.ErrInvalidKeyLength)

		_, err = DeriveEntityKey(key, "x")
		assert.ErrorIs(t, err, errdefs.ErrInvalidKeyLength)

		_, err = BatchDeriveSubjectIDs(key, []string{"x"})
		assert.ErrorIs(t, err, errdefs.ErrInvalidKeyLength)

		_, err = BatchDeriveEntityKeys(key, []string{"x"})
		assert.ErrorIs(t, err, errdefs.ErrInvalidKeyLength)
	}
}

func TestDeriveEntityKey_Vectors(t *testing.T) {
	got, err := DeriveEntityKey(zeroKey(), "Alice Chen")
	require.NoError(t, err)
	assert.Equal(t, "e5b8161f27d8a94bec105889c631ffa89f452568db67dea8df111ae5b98f4929", got)

	got, err = DeriveEntityKey(zeroKey(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, "85217e363c2ba1358fa3d549c8257d1feacc5cd2e0550417c37c3138600a1fb0", got)
}

func TestDeriveEntityKey_Normalization(t *testing.T) {
	key := seqKey()

	a, err := DeriveEntityKey(key, "Alice Chen")
	require.NoError(t, err)
	b, err := DeriveEntityKey(key, "alice chen")
	require.NoError(t, err)
	c, err := DeriveEntityKey(key, "  Alice Chen  ")
	require.NoError(t, err)
	d, err := DeriveEntityKey(key, "\tALICE CHEN\n")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, a, d)
}

func TestDomainSeparation(t *testing.T) {
	for _, raw := range []string{"user-123", "alice chen", "", "a"} {
		s, err := DeriveSubjectID(zeroKey(), raw)
		require.NoError(t, err)
		e, err := DeriveEntityKey(zeroKey(), raw)
		require.NoError(t, err)
		assert.NotEqual(t, s, e, raw)
	}

	// Fixed vectors: same raw string, different domains.
	s, _ := DeriveSubjectID(zeroKey(), "user-123")
	e, _ := DeriveEntityKey(zeroKey(), "user-123")
	assert.Equal(t, "7bb4ddc8278b598e4a6e2171d97279153b187be7dde79b6e9620f7ece4075a16", s)
	assert.Equal(t, "85217e363c2ba1358fa3d549c8257d1feacc5cd2e0550417c37c3138600a1fb0", e)
}

func TestOutputCharset(t *testing.T) {
	for _, raw := range []string{"user-123", "", "🙂", "Alice Chen", "a\nb"} {
		s, err := DeriveSubjectID(seqKey(), raw)
		require.NoError(t, err)
		assert.Regexp(t, hex64, s)
		assert.True(t, IsValidSubjectID(s))

		e, err := DeriveEntityKey(seqKey(), raw)
		require.NoError(t, err)
		assert.Regexp(t, hex64, e)
	}
}

func TestBatchDeriveSubjectIDs_MatchesSingle(t *testing.T) {
	key := zeroKey()
	got, err := BatchDeriveSubjectIDs(key, []string{"a", "b", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1f5041a2f9e4b9307e0ae03586d5ab7269ed54d0687c2ff4fdc77d5997bf5f7f", got["a"])
	assert.Equal(t, "44057a4d3df355b82af420e60837f69b1772472a096ee4156f19d6497fabddd8", got["b"])

	for raw, id := range got {
		single, err := DeriveSubjectID(key, raw)
		require.NoError(t, err)
		assert.Equal(t, single, id)
	}
}

func TestBatchDeriveEntityKeys_KeyedByNormalizedName(t *testing.T) {
	key := seqKey()
	got, err := BatchDeriveEntityKeys(key, []string{"Alice Chen", "  alice chen", "Bob"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	alice, err := DeriveEntityKey(key, "Alice Chen")
	require.NoError(t, err)
	bob, err := DeriveEntityKey(key, "bob")
	require.NoError(t, err)
	assert.Equal(t, alice, got["alice chen"])
	assert.Equal(t, bob, got["bob"])
}

func TestBatchDerive_Empty(t *testing.T) {
	got, err := BatchDeriveSubjectIDs(zeroKey(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func BenchmarkDeriveSubjectID(b *testing.B) {
	key := seqKey()
	for i := 0; i < b.N; i++ {
		_, _ = DeriveSubjectID(key, "user-123")
	}
}

func BenchmarkBatchDeriveSubjectIDs(b *testing.B) {
	key := seqKey()
	ids := []string{"user-1", "user-2", "user-3", "user-4", "user-5", "user-6", "user-7", "user-8"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BatchDeriveSubjectIDs(key, ids)
	}
}
