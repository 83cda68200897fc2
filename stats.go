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

import "sync/atomic"

// Stats is a snapshot of responder counters.
type Stats struct {
	Transfers          int64 // Inbound transfers seen by the receive handler
	MalformedTransfers int64 // Transfers discarded for having the wrong length
	FramesAccepted     int64 // Frames stored in the queue
	FramesDropped      int64 // Frames dropped because the queue was full or frozen
	BatchesPlayed      int64 // Batches played to completion
	Dispatches         int64 // Pulse trains handed to the dispatcher
	Unsupported        int64 // Dispatches skipped for an unknown encoding
	EmitErrors         int64 // Dispatches that failed in the emitter
}

// counters is shared by the receive handler and the engine.
type counters struct {
	transfers   atomic.Int64
	malformed   atomic.Int64
	accepted    atomic.Int64
	dropped     atomic.Int64
	batches     atomic.Int64
	dispatches  atomic.Int64
	unsupported atomic.Int64
	emitErrors  atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Transfers:          c.transfers.Load(),
		MalformedTransfers: c.malformed.Load(),
		FramesAccepted:     c.accepted.Load(),
		FramesDropped:      c.dropped.Load(),
		BatchesPlayed:      c.batches.Load(),
		Dispatches:         c.dispatches.Load(),
		Unsupported:        c.unsupported.Load(),
		EmitErrors:         c.emitErrors.Load(),
	}
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Transfers:          s.Transfers + o.Transfers,
		MalformedTransfers: s.MalformedTransfers + o.MalformedTransfers,
		FramesAccepted:     s.FramesAccepted + o.FramesAccepted,
		FramesDropped:      s.FramesDropped + o.FramesDropped,
		BatchesPlayed:      s.BatchesPlayed + o.BatchesPlayed,
		Dispatches:         s.Dispatches + o.Dispatches,
		Unsupported:        s.Unsupported + o.Unsupported,
		EmitErrors:         s.EmitErrors + o.EmitErrors,
	}
}
