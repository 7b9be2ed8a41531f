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

package healthcheck

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func probe(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProbes(t *testing.T) {
	s := NewServer(0)

	t.Run("starts unhealthy and not ready", func(t *testing.T) {
		assert.Equal(t, http.StatusServiceUnavailable, probe(t, s, "/healthz").Code)
		assert.Equal(t, http.StatusServiceUnavailable, probe(t, s, "/readyz").Code)
		assert.Equal(t, http.StatusOK, probe(t, s, "/livez").Code)
	})

	t.Run("healthy and ready", func(t *testing.T) {
		s.SetHealthy(true)
		s.SetReady(true)
		rec := probe(t, s, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"healthy":true}`, rec.Body.String())
		assert.Equal(t, http.StatusOK, probe(t, s, "/readyz").Code)
	})

	t.Run("readiness can drop while healthy", func(t *testing.T) {
		s.SetReady(false)
		assert.Equal(t, http.StatusOK, probe(t, s, "/healthz").Code)
		assert.Equal(t, http.StatusServiceUnavailable, probe(t, s, "/readyz").Code)
	})
}

func TestStopWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer(0).Stop())
}
