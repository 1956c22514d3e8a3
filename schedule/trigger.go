//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package schedule defers work to a later turn of the editor loop.
// A Trigger coalesces bursts of requests into one trailing call; the
// Scheduler behind it decides when that call runs, so tests can drive
// time by hand with a Manual scheduler.
package schedule

import "time"

// A Timer is a pending call that can be stopped.
type Timer interface {
	// Stop prevents the call from running. It reports whether the call was still pending.
	Stop() bool
}

// A Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// A Trigger calls fn once, delay after the last of a series of Trigger calls.
type Trigger struct {
	scheduler Scheduler
	delay     time.Duration
	fn        func()
	timer     Timer
}

func NewTrigger(s Scheduler, delay time.Duration, fn func()) *Trigger {
	return &Trigger{scheduler: s, delay: delay, fn: fn}
}

// Trigger arms the trigger, replacing any call that is already pending.
func (t *Trigger) Trigger() {
	if t.timer != nil {
		t.timer.Stop()
	}
	var timer Timer
	timer = t.scheduler.AfterFunc(t.delay, func() {
		if t.timer == timer {
			t.timer = nil
		}
		t.fn()
	})
	t.timer = timer
}

// Flush runs a pending call immediately. It reports whether one was pending.
func (t *Trigger) Flush() bool {
	if t.timer == nil {
		return false
	}
	pending := t.timer.Stop()
	t.timer = nil
	if pending {
		t.fn()
	}
	return pending
}

// Cancel drops a pending call.
func (t *Trigger) Cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Trigger) Pending() bool {
	return t.timer != nil
}
