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

package fingerprint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// Flatten turns arbitrary content into the text that is fingerprinted.
//
// Strings are used as-is. Byte slices holding valid JSON, and every other
// value, are JSON-encoded, canonicalized (RFC 8785) and walked in order:
// object keys and strings verbatim, numbers in canonical form, booleans as
// true/false, nulls skipped. Pieces are joined by single spaces.
func Flatten(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.RawMessage:
		return flattenBytes(v)
	case []byte:
		return flattenBytes(v)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Sprint(content)
	}
	text, err := flattenJSON(raw)
	if err != nil {
		return fmt.Sprint(content)
	}
	return text
}

func flattenBytes(b []byte) string {
	if !json.Valid(b) {
		return string(b)
	}
	text, err := flattenJSON(b)
	if err != nil {
		return string(b)
	}
	return text
}

func flattenJSON(raw []byte) (string, error) {
	// The canonicalizer only accepts objects and arrays, so a top-level
	// scalar is canonicalized as a one-element array.
	if trimmed := bytes.TrimLeft(raw, " \t\r\n"); len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '[' {
		raw = append(append([]byte{'['}, trimmed...), ']')
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		canonical = raw
	}

	dec := json.NewDecoder(bytes.NewReader(canonical))
	dec.UseNumber()

	var parts []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case string:
			if t != "" {
				parts = append(parts, t)
			}
		case json.Number:
			parts = append(parts, t.String())
		case bool:
			parts = append(parts, strconv.FormatBool(t))
		}
	}
	return strings.Join(parts, " "), nil
}
