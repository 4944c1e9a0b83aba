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

import "encoding/json"

// OriginalMessage captures the failed record inside a dead-letter entry.
type OriginalMessage struct {
	Key       string `json:"key,omitempty"`
	Value     string `json:"value"`
	Offset    int64  `json:"offset"`
	Partition int    `json:"partition"`
}

// DeadLetterRecord is published to the dead-letter topic when a handler
// fails terminally. Consumed only by inspection tooling.
type DeadLetterRecord struct {
	ID              string          `json:"id"`
	OriginalTopic   string          `json:"originalTopic"`
	OriginalMessage OriginalMessage `json:"originalMessage"`
	Error           string          `json:"error"`
	Timestamp       int64           `json:"timestamp"`
	ContainerRole   string          `json:"containerRole"`
}

// RetryRecord is published to a {topic}-retry topic when a transient
// failure should be attempted again later.
type RetryRecord struct {
	OriginalData  json.RawMessage `json:"originalData"`
	RetryCount    int             `json:"retryCount"`
	Timestamp     int64           `json:"timestamp"`
	ContainerRole string          `json:"containerRole"`
}
