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

package schedule

import (
	"sync"
	"time"
)

// Loop is a Scheduler for a single-threaded event loop. Timers fire on their
// own goroutines but only queue the call; the loop runs queued calls with
// RunPending on its own turn. Wake is called after a call is queued so that
// a loop blocked waiting for input can return and drain the queue.
type Loop struct {
	mu     sync.Mutex
	queue  []*loopTimer
	timers map[*loopTimer]struct{}
	wake   func()
	closed bool
}

type loopTimer struct {
	loop    *Loop
	timer   *time.Timer
	f       func()
	queued  bool
	stopped bool
}

func NewLoop(wake func()) *Loop {
	return &Loop{wake: wake, timers: make(map[*loopTimer]struct{})}
}

func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{loop: l, f: f}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		t.stopped = true
		return t
	}
	l.timers[t] = struct{}{}
	t.timer = time.AfterFunc(d, t.post)
	return t
}

func (t *loopTimer) post() {
	l := t.loop
	l.mu.Lock()
	delete(l.timers, t)
	if t.stopped || l.closed {
		l.mu.Unlock()
		return
	}
	t.queued = true
	l.queue = append(l.queue, t)
	l.mu.Unlock()
	if l.wake != nil {
		l.wake()
	}
}

func (t *loopTimer) Stop() bool {
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	delete(l.timers, t)
	if t.timer != nil && t.timer.Stop() {
		return true
	}
	// already fired: it may still be waiting in the queue
	return t.queued
}

// RunPending runs every queued call that has not been stopped.
// It returns the number of calls run.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	n := 0
	for _, t := range queue {
		l.mu.Lock()
		run := !t.stopped
		t.stopped = true
		l.mu.Unlock()
		if run {
			t.f()
			n++
		}
	}
	return n
}

// Close stops every outstanding timer and drops queued calls.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for t := range l.timers {
		t.stopped = true
		if t.timer != nil {
			t.timer.Stop()
		}
	}
	clear(l.timers)
	for _, t := range l.queue {
		t.stopped = true
	}
	l.queue = nil
}
