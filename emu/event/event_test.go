/*
 * PCE - Event list test cases
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package event

import (
	"testing"
)

type testDev struct {
	iarg int
	time int
}

type testState struct {
	list  List
	now   int
	a     testDev
	b     testDev
	c     testDev
	d     testDev
	chain bool
}

func (s *testState) fire(dev *testDev) Callback {
	return func(iarg int) {
		dev.iarg = iarg
		dev.time = s.now
		if s.chain && dev == &s.c {
			s.list.Add(&s.a, s.fire(&s.a), iarg, iarg)
		}
	}
}

func (s *testState) run(n int, each func()) {
	for range n {
		s.now++
		s.list.Advance(1)
		if each != nil {
			each()
		}
	}
}

func checkDev(t *testing.T, name string, dev testDev, time, iarg int) {
	t.Helper()
	if dev.time != time {
		t.Errorf("Event %s did not fire at correct time got: %d wanted: %d", name, dev.time, time)
	}
	if dev.iarg != iarg {
		t.Errorf("Event %s did not set data correct got: %d wanted: %d", name, dev.iarg, iarg)
	}
}

func TestSingleEvent(t *testing.T) {
	s := &testState{}
	s.list.Add(&s.a, s.fire(&s.a), 10, 1)
	if s.list.Next() != 10 {
		t.Errorf("Next got: %d wanted: %d", s.list.Next(), 10)
	}
	s.run(20, nil)
	checkDev(t, "A", s.a, 10, 1)
	if s.list.Any() {
		t.Errorf("List not empty after event")
	}
}

func TestTwoEvents(t *testing.T) {
	s := &testState{}
	s.list.Add(&s.a, s.fire(&s.a), 10, 1)
	s.list.Add(&s.b, s.fire(&s.b), 5, 2)
	s.run(20, nil)
	checkDev(t, "A", s.a, 10, 1)
	checkDev(t, "B", s.b, 5, 2)
}

func TestSameTime(t *testing.T) {
	s := &testState{}
	s.list.Add(&s.a, s.fire(&s.a), 10, 1)
	s.list.Add(&s.b, s.fire(&s.b), 10, 2)
	s.list.Add(&s.d, s.fire(&s.d), 25, 3)
	s.run(30, nil)
	checkDev(t, "A", s.a, 10, 1)
	checkDev(t, "B", s.b, 10, 2)
	checkDev(t, "D", s.d, 25, 3)
}

// Callback posting a new event.
func TestEventFromCallback(t *testing.T) {
	s := &testState{chain: true}
	s.list.Add(&s.c, s.fire(&s.c), 10, 2)
	s.run(30, nil)
	checkDev(t, "C", s.c, 10, 2)
	checkDev(t, "A", s.a, 12, 2)
}

func TestCancel(t *testing.T) {
	s := &testState{}
	s.list.Add(&s.a, s.fire(&s.a), 10, 5)
	s.list.Add(&s.b, s.fire(&s.b), 40, 2)
	s.list.Add(&s.d, s.fire(&s.d), 30, 3)
	s.list.Add(&s.d, s.fire(&s.d), 50, 4)
	if !s.list.Pending(&s.d, 4) {
		t.Errorf("Pending did not find event")
	}
	s.run(60, func() {
		if s.a.iarg == 5 {
			s.list.Cancel(&s.b, 2)
			s.list.Cancel(&s.d, 4)
		}
	})
	checkDev(t, "A", s.a, 10, 5)
	checkDev(t, "B", s.b, 0, 0)
	checkDev(t, "D", s.d, 30, 3)
	if s.list.Cancel(&s.b, 2) {
		t.Errorf("Cancel found removed event")
	}
}

// Advancing several cycles at once carries overrun into later events.
func TestAdvanceMany(t *testing.T) {
	s := &testState{}
	s.list.Add(&s.a, s.fire(&s.a), 3, 1)
	s.list.Add(&s.b, s.fire(&s.b), 7, 2)
	s.list.Advance(5)
	if s.a.iarg != 1 {
		t.Errorf("Event A not fired after overrun")
	}
	if s.b.iarg != 0 {
		t.Errorf("Event B fired early")
	}
	if s.list.Next() != 2 {
		t.Errorf("Next after overrun got: %d wanted: %d", s.list.Next(), 2)
	}
	s.list.Advance(2)
	if s.b.iarg != 2 {
		t.Errorf("Event B not fired")
	}
}

func TestImmediate(t *testing.T) {
	s := &testState{}
	s.list.Add(&s.a, s.fire(&s.a), 0, 5)
	checkDev(t, "A", s.a, 0, 5)
	if s.list.Any() {
		t.Errorf("Immediate event left on list")
	}
}
