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

package consent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	assert.True(t, Static(true).Granted(ctx))
	assert.False(t, Static(false).Granted(ctx))
}

func TestFileFlag(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "consent.yaml")
	flag := FileFlag{Path: path}

	t.Run("missing file is denied", func(t *testing.T) {
		assert.False(t, flag.Granted(ctx))
	})

	t.Run("granted", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("granted: true\n"), 0o644))
		assert.True(t, flag.Granted(ctx))
	})

	t.Run("revocation takes effect without restart", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("granted: false\n"), 0o644))
		assert.False(t, flag.Granted(ctx))
	})

	t.Run("malformed file is denied", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("granted: {oops"), 0o644))
		assert.False(t, flag.Granted(ctx))
	})
}
