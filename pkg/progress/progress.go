// Copyright 2025 walteh LLC
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

// Package progress carries best-effort progress notifications from long
// running calls (executing a batch, hashing files, scanning a directory) to
// whoever is watching. Delivery never blocks and never fails the caller.
package progress

import (
	"sync"
)

// 🏷️ Kind names the stage a progress event belongs to
type Kind string

const (
	KindStarted    Kind = "started"
	KindProcessing Kind = "processing"
	KindHashing    Kind = "hashing"
	KindScanning   Kind = "scanning"
	KindCompleted  Kind = "completed"
)

// 📊 Event is a single progress notification
type Event struct {
	Event          Kind    `json:"event"`
	CurrentFile    string  `json:"current_file,omitempty"`
	CompletedCount int     `json:"completed_count"`
	TotalCount     int     `json:"total_count"`
	Percentage     float64 `json:"percentage"`
}

// Step builds the event emitted before item index (zero based) of total.
func Step(kind Kind, file string, index, total int) Event {
	return Event{
		Event:          kind,
		CurrentFile:    file,
		CompletedCount: index,
		TotalCount:     total,
		Percentage:     Percentage(index, total),
	}
}

// Done builds the final event of a call that processed total items.
func Done(total int) Event {
	return Event{
		Event:          KindCompleted,
		CompletedCount: total,
		TotalCount:     total,
		Percentage:     100,
	}
}

// Percentage returns completed/total*100, or 0 for an empty run.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// 📢 Reporter receives progress events
type Reporter interface {
	Report(ev Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Report(Event) {}

// Func adapts a plain function into a Reporter.
type Func func(ev Event)

func (f Func) Report(ev Event) {
	if f != nil {
		f(ev)
	}
}

// 📬 Channel forwards events into a channel without ever blocking.
// Events are dropped when the channel is full, and after Close.
type Channel struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewChannel creates a Channel with the given buffer size.
func NewChannel(buffer int) *Channel {
	return &Channel{ch: make(chan Event, buffer)}
}

// Events returns the receive side of the channel.
func (c *Channel) Events() <-chan Event {
	return c.ch
}

// Report implements Reporter.
func (c *Channel) Report(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- ev:
	default:
	}
}

// Close closes the underlying channel. Later reports are dropped.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// OrNop returns r, or a Nop reporter when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop{}
	}
	return r
}
