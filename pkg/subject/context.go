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
	"fmt"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// Scope selects which memories a request addresses.
type Scope string

const (
	ScopeSubject Scope = "SUBJECT"
	ScopeSegment Scope = "SEGMENT"
	ScopeGlobal  Scope = "GLOBAL"
)

// Context is the tagged union SUBJECT{subject_id} | SEGMENT{segment_id} |
// GLOBAL, each with an optional tenant id.
type Context struct {
	Scope     Scope  `json:"scope"`
	SubjectID string `json:"subjectId,omitempty"`
	SegmentID string `json:"segmentId,omitempty"`
	TenantID  string `json:"tenantId,omitempty"`
}

// SubjectContext returns a SUBJECT context for an already derived subject id.
func SubjectContext(subjectID, tenantID string) Context {
	return Context{Scope: ScopeSubject, SubjectID: subjectID, TenantID: tenantID}
}

// SegmentContext returns a SEGMENT context.
func SegmentContext(segmentID, tenantID string) Context {
	return Context{Scope: ScopeSegment, SegmentID: segmentID, TenantID: tenantID}
}

// GlobalContext returns a GLOBAL context.
func GlobalContext(tenantID string) Context {
	return Context{Scope: ScopeGlobal, TenantID: tenantID}
}

// NewSubjectContext derives the subject id for rawSubjectID and wraps it in
// a SUBJECT context. The raw id is not retained.
func NewSubjectContext(agentKey []byte, rawSubjectID, tenantID string) (Context, error) {
	id, err := DeriveSubjectID(agentKey, rawSubjectID)
	if err != nil {
		return Context{}, err
	}
	return SubjectContext(id, tenantID), nil
}

// IsValidSubjectID reports whether s is exactly 64 lowercase hex characters.
func IsValidSubjectID(s string) bool {
	if len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// IsValidScope reports whether s is SUBJECT, SEGMENT or GLOBAL.
func IsValidScope(s string) bool {
	switch Scope(s) {
	case ScopeSubject, ScopeSegment, ScopeGlobal:
		return true
	default:
		return false
	}
}

// ValidateContext checks the invariants of c before it is used in a request.
func ValidateContext(c Context) error {
	if !IsValidScope(string(c.Scope)) {
		return fmt.Errorf("%w: unknown scope %q", errdefs.ErrInvalidFormat, c.Scope)
	}

	switch c.Scope {
	case ScopeSubject:
		if c.SubjectID == "" {
			return fmt.Errorf("%w: SUBJECT scope requires subjectId", errdefs.ErrInvalidContext)
		}
		if !IsValidSubjectID(c.SubjectID) {
			return fmt.Errorf("%w: subjectId must be 64 lowercase hex characters", errdefs.ErrInvalidContext)
		}
	case ScopeSegment:
		if c.SegmentID == "" {
			return fmt.Errorf("%w: SEGMENT scope requires segmentId", errdefs.ErrInvalidContext)
		}
	}
	return nil
}
