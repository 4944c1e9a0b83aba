// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performHealth(t *testing.T, checks Checks) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(checks).RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealthAllDependenciesUp(t *testing.T) {
	w, body := performHealth(t, Checks{
		Role:     "secondary",
		State:    func() string { return "PRIMARY_ACTIVE" },
		Broker:   func() bool { return true },
		Database: func() error { return nil },
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "secondary", body["container"])
	assert.Equal(t, "PRIMARY_ACTIVE", body["state"])

	services := body["services"].(map[string]interface{})
	assert.Equal(t, "healthy", services["kafka"])
	assert.Equal(t, "healthy", services["database"])
}

func TestHealthBrokerDownIs503(t *testing.T) {
	w, body := performHealth(t, Checks{
		Role:     "main",
		State:    func() string { return "STANDBY_PASSIVE" },
		Broker:   func() bool { return false },
		Database: func() error { return nil },
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, body["success"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "unhealthy", services["kafka"])
}

func TestHealthDatabaseDownIs503(t *testing.T) {
	w, body := performHealth(t, Checks{
		Role:     "main",
		State:    func() string { return "STANDBY_PASSIVE" },
		Broker:   func() bool { return true },
		Database: func() error { return errors.New("connection refused") },
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "unhealthy", services["database"])
	assert.Contains(t, services["database_error"], "connection refused")
}
