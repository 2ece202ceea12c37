package runtime

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/loopsim/trace"
)

// PendingTimer is a delayed callback, waiting for its tick counter to reach 0.
type PendingTimer struct {
	ID             int
	Name           string // display name
	RemainingTicks int
	Callback       string // label enqueued as macrotask when the timer fires
}

// TimerSet holds pending timers in registration order.
type TimerSet struct {
	list   *arraylist.List
	nextID int
}

// NewTimerSet creates an empty timer set.
func NewTimerSet() *TimerSet {
	return &TimerSet{list: arraylist.New(), nextID: 1}
}

// Add registers a timer and returns its ID. IDs are assigned 1, 2, … per run.
// Tick counts below 1 are raised to 1.
func (ts *TimerSet) Add(name string, ticks int, callback string) int {
	if ticks < 1 {
		ticks = 1
	}
	t := &PendingTimer{
		ID:             ts.nextID,
		Name:           name,
		RemainingTicks: ticks,
		Callback:       callback,
	}
	ts.nextID++
	ts.list.Add(t)
	tracer().P("timer", t.ID).Debugf("%s registered, %d ticks, callback %s", name, ticks, callback)
	return t.ID
}

// Tick decrements every pending timer by one tick. Timers reaching 0 are
// removed and returned in registration order.
func (ts *TimerSet) Tick() []PendingTimer {
	var fired []PendingTimer
	kept := make([]interface{}, 0, ts.list.Size())
	it := ts.list.Iterator()
	for it.Next() {
		t := it.Value().(*PendingTimer)
		if t.RemainingTicks > 0 {
			t.RemainingTicks--
		}
		if t.RemainingTicks == 0 {
			fired = append(fired, *t)
			tracer().P("timer", t.ID).Debugf("%s fired", t.Name)
			continue
		}
		kept = append(kept, t)
	}
	if len(fired) > 0 {
		ts.list.Clear()
		ts.list.Add(kept...)
	}
	return fired
}

// Len returns the number of pending timers.
func (ts *TimerSet) Len() int {
	return ts.list.Size()
}

// Timers returns copies of the pending timers in registration order.
func (ts *TimerSet) Timers() []PendingTimer {
	timers := make([]PendingTimer, 0, ts.list.Size())
	ts.list.Each(func(_ int, v interface{}) {
		timers = append(timers, *v.(*PendingTimer))
	})
	return timers
}

// View projects the pending timers for display.
func (ts *TimerSet) View() []trace.TimerView {
	view := make([]trace.TimerView, 0, ts.list.Size())
	ts.list.Each(func(_ int, v interface{}) {
		t := v.(*PendingTimer)
		view = append(view, trace.TimerView{Name: t.Name, RemainingTicks: t.RemainingTicks})
	})
	return view
}

// ---------------------------------------------------------------------------

// ConsoleLog is the append-only console output of a run.
type ConsoleLog struct {
	lines []string
}

// NewConsoleLog creates an empty console log.
func NewConsoleLog() *ConsoleLog {
	return &ConsoleLog{lines: []string{}}
}

// Append adds a line of output.
func (cl *ConsoleLog) Append(line string) {
	cl.lines = append(cl.lines, line)
	tracer().P("console", len(cl.lines)).Infof("%s", line)
}

// Lines returns a copy of the output.
func (cl *ConsoleLog) Lines() []string {
	c := make([]string, len(cl.lines))
	copy(c, cl.lines)
	return c
}

// Len returns the number of lines logged.
func (cl *ConsoleLog) Len() int {
	return len(cl.lines)
}
