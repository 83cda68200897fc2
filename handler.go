// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package irrelay

// Receiver is the bus receive handler. HandleTransfer runs on the transport's
// goroutine, preemptively with respect to the engine, so it does no blocking
// work: it validates the length, decodes, appends and raises the batch-ready
// signal.
type Receiver struct {
	queue  *Queue
	notify func()
	stats  *counters
}

// NewReceiver returns a handler appending into queue. notify is called, and
// must not block, whenever the queue holds a committed batch after a
// transfer.
func NewReceiver(queue *Queue, notify func()) *Receiver {
	if notify == nil {
		notify = func() {}
	}
	return &Receiver{
		queue:  queue,
		notify: notify,
		stats:  &counters{},
	}
}

// HandleTransfer processes one inbound transfer. Transfers that are not
// exactly FrameSize bytes are drained and discarded without touching the
// queue.
func (r *Receiver) HandleTransfer(p []byte) {
	r.stats.transfers.Add(1)

	frame, err := DecodeFrame(p)
	if err != nil {
		r.stats.malformed.Add(1)
		Debugf("discarding transfer: %v", err)
		return
	}

	if err := r.queue.Append(frame).Err(); err != nil {
		r.stats.dropped.Add(1)
		Debugf("dropping frame %v: %v", frame, err)
	} else {
		r.stats.accepted.Add(1)
	}

	if frame.Committed && r.queue.Ready() {
		r.notify()
	}
}

// Stats returns the handler's counters.
func (r *Receiver) Stats() Stats {
	return r.stats.snapshot()
}
