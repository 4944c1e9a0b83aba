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

package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/consumer"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
)

type fakeRouter struct {
	status consumer.Status
	seen   []*event.Envelope
}

func (f *fakeRouter) Route(ctx context.Context, env *event.Envelope) consumer.Status {
	f.seen = append(f.seen, env)
	return f.status
}

func performIngest(t *testing.T, router *fakeRouter, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(router).RegisterRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestIngestRoutesEnvelope(t *testing.T) {
	router := &fakeRouter{status: consumer.StatusProcessed}

	env := event.Envelope{
		Topic:     "product-events",
		Partition: 0,
		Offset:    21,
		Key:       "P100",
		Value:     json.RawMessage(`{"eventType":"ADD_PRODUCT_WITH_PHARMA","data":{}}`),
	}
	body, err := json.Marshal(env)
	require.NoError(t, err)

	w := performIngest(t, router, body)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, router.seen, 1)
	assert.Equal(t, "product-events-0-21", router.seen[0].MessageID())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "processed", resp["status"])
}

func TestIngestDeadLetteredIsStillOK(t *testing.T) {
	router := &fakeRouter{status: consumer.StatusDeadLettered}

	body, err := json.Marshal(event.Envelope{Topic: "product-events", Offset: 3})
	require.NoError(t, err)

	w := performIngest(t, router, body)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dead_lettered", resp["status"])
}

func TestIngestRejectsMalformedBody(t *testing.T) {
	router := &fakeRouter{}

	w := performIngest(t, router, []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, router.seen)
}

func TestIngestRejectsMissingTopic(t *testing.T) {
	router := &fakeRouter{}

	body, err := json.Marshal(event.Envelope{Offset: 3})
	require.NoError(t, err)

	w := performIngest(t, router, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, router.seen)
}
