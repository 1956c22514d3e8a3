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
	"sort"
	"time"
)

// Manual is a Scheduler driven by Advance. Calls run in the goroutine that calls Advance.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m   *Manual
	due time.Duration
	seq int
	f   func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	for i, candidate := range t.m.timers {
		if candidate == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d and runs every call that became due, oldest first.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		sort.SliceStable(m.timers, func(i, j int) bool {
			if m.timers[i].due != m.timers[j].due {
				return m.timers[i].due < m.timers[j].due
			}
			return m.timers[i].seq < m.timers[j].seq
		})
		if len(m.timers) == 0 || m.timers[0].due > target {
			break
		}
		t := m.timers[0]
		m.timers = m.timers[1:]
		m.now = t.due
		t.f()
	}
	m.now = target
}

// Pending is the number of calls waiting to run.
func (m *Manual) Pending() int {
	return len(m.timers)
}
