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

package consumer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "druglabel_messages_processed_total",
		Help: "Messages processed successfully, by topic.",
	}, []string{"topic"})

	duplicatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "druglabel_duplicates_skipped_total",
		Help: "Messages skipped as duplicates, by topic.",
	}, []string{"topic"})

	deadLettersProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "druglabel_dead_letters_total",
		Help: "Messages routed to the dead-letter topic, by original topic.",
	}, []string{"topic"})

	failoverPromotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "druglabel_failover_promotions_total",
		Help: "Standby promotions triggered by peer health failure.",
	})

	forwardFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "druglabel_forward_fallbacks_total",
		Help: "Peer-forward deliveries that fell back to local processing.",
	})
)
