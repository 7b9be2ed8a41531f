// Copyright (C) 2025-2026 Blockkit, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package pattern defines the layout pattern record and the exclusion
// filtering applied to remote catalog results.
package pattern

import (
	"encoding/json"
	"strconv"
)

// Pattern is one reusable layout record from the pattern directory.
// ID, Title, and Slug are parsed views of the underlying record; Fields
// holds every field of the original record untouched, so metadata we do
// not understand survives a cache round trip byte for byte.
type Pattern struct {
	ID    string
	Title string
	Slug  string

	// Fields is the full raw record, keyed by field name. Nil for
	// records constructed in code rather than decoded from JSON.
	Fields map[string]json.RawMessage
}

// UnmarshalJSON decodes a raw directory record, keeping all fields.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	p.Fields = fields
	p.ID = canonicalID(fields["id"])
	p.Title = stringField(fields["title"])
	p.Slug = stringField(fields["slug"])
	return nil
}

// MarshalJSON emits the original record when one was decoded, otherwise
// an object synthesized from the parsed fields.
func (p Pattern) MarshalJSON() ([]byte, error) {
	if p.Fields != nil {
		return json.Marshal(p.Fields)
	}
	obj := map[string]string{
		"title": p.Title,
		"slug":  p.Slug,
	}
	if p.ID != "" {
		obj["id"] = p.ID
	}
	return json.Marshal(obj)
}

// canonicalID maps a raw id value to the string form used for exclusion
// checks. String ids are unquoted, numeric ids keep their decimal text,
// and a missing id canonicalizes to "" (which matches no exclusion).
func canonicalID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func stringField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// NumericID returns the id as an integer when it has one.
func (p Pattern) NumericID() (int64, bool) {
	n, err := strconv.ParseInt(p.ID, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
