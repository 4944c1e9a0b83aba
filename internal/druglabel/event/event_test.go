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

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIDIsTopicPartitionOffset(t *testing.T) {
	env := &Envelope{Topic: "product-events", Partition: 3, Offset: 1201}
	assert.Equal(t, "product-events-3-1201", env.MessageID())
}

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload([]byte(`{"eventType":"ADD_MEMBER","data":{"mem_username":"x"},"source":"pos"}`))
	require.NoError(t, err)
	assert.Equal(t, "ADD_MEMBER", p.EventType)
	assert.Equal(t, "pos", p.Source)
	assert.JSONEq(t, `{"mem_username":"x"}`, string(p.Data))
}

func TestParsePayloadRejectsMissingEventType(t *testing.T) {
	_, err := ParsePayload([]byte(`{"data":{}}`))
	assert.Error(t, err)
}

func TestParsePayloadRejectsMalformedJSON(t *testing.T) {
	_, err := ParsePayload([]byte(`{broken`))
	assert.Error(t, err)
}

func TestParseTopic(t *testing.T) {
	for _, name := range []string{
		"product-events", "member-events", "prescription-events",
		"pharma-events", "dead-letter-queue",
	} {
		topic, ok := ParseTopic(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, string(topic))
	}

	_, ok := ParseTopic("order-events")
	assert.False(t, ok)
	_, ok = ParseTopic("")
	assert.False(t, ok)
}

func TestRetryTopic(t *testing.T) {
	assert.Equal(t, "product-events-retry", RetryTopic(TopicProductEvents))
	assert.Equal(t, "member-events-retry", RetryTopic(TopicMemberEvents))
}
