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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

const validID = "7bb4ddc8278b598e4a6e2171d97279153b187be7dde79b6e9620f7ece4075a16"

func TestIsValidSubjectID(t *testing.T) {
	assert.True(t, IsValidSubjectID(validID))
	assert.False(t, IsValidSubjectID(strings.ToUpper(validID)))
	assert.False(t, IsValidSubjectID(validID[:63]))
	assert.False(t, IsValidSubjectID(validID+"0"))
	assert.False(t, IsValidSubjectID(strings.Repeat("g", 64)))
	assert.False(t, IsValidSubjectID(""))
}

func TestIsValidScope(t *testing.T) {
	for _, s := range []string{"SUBJECT", "SEGMENT", "GLOBAL"} {
		assert.True(t, IsValidScope(s), s)
	}
	for _, s := range []string{"subject", "TENANT", ""} {
		assert.False(t, IsValidScope(s), s)
	}
}

func TestValidateContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want error
	}{
		{"subject ok", SubjectContext(validID, ""), nil},
		{"subject ok with tenant", SubjectContext(validID, "tenant-1"), nil},
		{"segment ok", SegmentContext("vip-customers", ""), nil},
		{"global ok", GlobalContext(""), nil},
		{"global with tenant", GlobalContext("tenant-1"), nil},
		{"subject missing id", Context{Scope: ScopeSubject}, errdefs.ErrInvalidContext},
		{"subject raw id", SubjectContext("user-123", ""), errdefs.ErrInvalidContext},
		{"segment missing id", Context{Scope: ScopeSegment, TenantID: "t"}, errdefs.ErrInvalidContext},
		{"unknown scope", Context{Scope: "TENANT"}, errdefs.ErrInvalidFormat},
		{"empty scope", Context{}, errdefs.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContext(tt.ctx)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewSubjectContext(t *testing.T) {
	c, err := NewSubjectContext(make([]byte, AgentKeySize), "user-123", "tenant-1")
	require.NoError(t, err)

	assert.Equal(t, ScopeSubject, c.Scope)
	assert.Equal(t, validID, c.SubjectID)
	assert.Equal(t, "tenant-1", c.TenantID)
	assert.NoError(t, ValidateContext(c))

	_, err = NewSubjectContext([]byte("short"), "user-123", "")
	assert.ErrorIs(t, err, errdefs.ErrInvalidKeyLength)
}
