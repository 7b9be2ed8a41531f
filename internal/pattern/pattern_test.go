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

package pattern

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_UnmarshalJSON(t *testing.T) {
	t.Run("numeric id", func(t *testing.T) {
		var p Pattern
		err := json.Unmarshal([]byte(`{"id":42,"title":"Hero","slug":"hero"}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "42", p.ID)
		assert.Equal(t, "Hero", p.Title)
		assert.Equal(t, "hero", p.Slug)
	})

	t.Run("string id", func(t *testing.T) {
		var p Pattern
		err := json.Unmarshal([]byte(`{"id":"abc-1","title":"Hero","slug":"hero"}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "abc-1", p.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		var p Pattern
		err := json.Unmarshal([]byte(`{"title":"Hero","slug":"hero"}`), &p)
		require.NoError(t, err)
		assert.Empty(t, p.ID)
		assert.Equal(t, "Hero", p.Title)
	})

	t.Run("unknown fields preserved", func(t *testing.T) {
		raw := `{"id":7,"title":"Hero","slug":"hero","content":"<div/>","viewport_width":1280,"categories":["banner"]}`
		var p Pattern
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		assert.JSONEq(t, `"<div/>"`, string(p.Fields["content"]))
		assert.JSONEq(t, `1280`, string(p.Fields["viewport_width"]))

		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	})
}

func TestPattern_MarshalJSON_Synthesized(t *testing.T) {
	p := Pattern{ID: "9", Title: "My pattern", Slug: "my-pattern"}
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"9","title":"My pattern","slug":"my-pattern"}`, string(out))

	t.Run("no id", func(t *testing.T) {
		out, err := json.Marshal(Pattern{Title: "T", Slug: "t"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"T","slug":"t"}`, string(out))
	})
}

func TestPattern_NumericID(t *testing.T) {
	n, ok := Pattern{ID: "42"}.NumericID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = Pattern{ID: "abc"}.NumericID()
	assert.False(t, ok)

	_, ok = Pattern{}.NumericID()
	assert.False(t, ok)
}
